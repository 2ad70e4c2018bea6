package earnings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/auth"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) Credit(ctx context.Context, influencerID, bookingID string, amountCents int64) (bool, error) {
	args := m.Called(ctx, influencerID, bookingID, amountCents)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) Total(ctx context.Context, influencerID string) (int64, error) {
	args := m.Called(ctx, influencerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) List(ctx context.Context, influencerID string, limit, offset int) ([]Entry, error) {
	args := m.Called(ctx, influencerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entry), args.Error(1)
}

func TestHandlerMine(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Total", mock.Anything, "inf-1").Return(int64(1350), nil)
	repo.On("List", mock.Anything, "inf-1", 5, 10).Return([]Entry{{BookingID: "b-1", AmountCents: 1350}}, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetActor(c, actor.Actor{ID: "inf-1", Role: actor.RoleInfluencer})
		c.Next()
	})
	r.GET("/earnings", NewHandler(repo).Mine)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/earnings?limit=5&offset=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(1350), got.TotalCents)
	assert.Len(t, got.Entries, 1)
}
