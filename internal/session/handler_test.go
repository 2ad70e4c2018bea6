package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/apperr"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/auth"
)

type MockService struct{ mock.Mock }

func (m *MockService) EnsureSession(ctx context.Context, a actor.Actor, bookingID string) (*JoinResult, error) {
	args := m.Called(ctx, a, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*JoinResult), args.Error(1)
}

func (m *MockService) Tick(ctx context.Context, a actor.Actor, sessionID string) (*TickResult, error) {
	args := m.Called(ctx, a, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TickResult), args.Error(1)
}

func (m *MockService) End(ctx context.Context, a actor.Actor, sessionID string) (*Session, error) {
	args := m.Called(ctx, a, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockService) TerminateForBooking(ctx context.Context, bookingID string) error {
	return m.Called(ctx, bookingID).Error(0)
}

func (m *MockService) SweepExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newRouter(svc Service, as actor.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetActor(c, as)
		c.Next()
	})
	r.POST("/bookings/:id/session", h.Join)
	r.GET("/sessions/:id/tick", h.Tick)
	r.POST("/sessions/:id/end", h.End)
	return r
}

func TestHandler_JoinStatuses(t *testing.T) {
	tests := []struct {
		name   string
		as     actor.Actor
		result *JoinResult
		err    error
		status int
	}{
		{"created", inf, &JoinResult{Session: &Session{ID: "s-1"}, Created: true}, nil, http.StatusCreated},
		{"joined", sub, &JoinResult{Session: &Session{ID: "s-1"}}, nil, http.StatusOK},
		{"waiting", sub, &JoinResult{Waiting: true}, nil, http.StatusAccepted},
		{"outside window", inf, nil, apperr.OutsideWindow("too early"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.err != nil {
				svc.On("EnsureSession", mock.Anything, tt.as, "b-1").Return(nil, tt.err)
			} else {
				svc.On("EnsureSession", mock.Anything, tt.as, "b-1").Return(tt.result, nil)
			}

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/bookings/b-1/session", nil)
			newRouter(svc, tt.as).ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_Tick(t *testing.T) {
	svc := new(MockService)
	svc.On("Tick", mock.Anything, sub, "s-1").Return(&TickResult{Session: &Session{ID: "s-1"}, RemainingSeconds: 42}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/sessions/s-1/tick", nil)
	newRouter(svc, sub).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remaining_seconds":42`)
}

func TestHandler_EndBySubscriber(t *testing.T) {
	svc := new(MockService)
	svc.On("End", mock.Anything, sub, "s-1").Return(nil, apperr.Authorization("only the influencer can end the session"))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/sessions/s-1/end", nil)
	newRouter(svc, sub).ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
