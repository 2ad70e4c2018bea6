package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/apperr"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/profile"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) sub(args mock.Arguments) (*Subscription, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Subscription), args.Error(1)
}

func (m *MockRepo) Create(ctx context.Context, subscriberID, influencerID string, priceCents int64, expiresAt time.Time) (*Subscription, error) {
	return m.sub(m.Called(ctx, subscriberID, influencerID, priceCents, expiresAt))
}

func (m *MockRepo) GetByID(ctx context.Context, id string) (*Subscription, error) {
	return m.sub(m.Called(ctx, id))
}

func (m *MockRepo) FindActive(ctx context.Context, subscriberID, influencerID string) (*Subscription, error) {
	return m.sub(m.Called(ctx, subscriberID, influencerID))
}

func (m *MockRepo) Cancel(ctx context.Context, id string) (*Subscription, error) {
	return m.sub(m.Called(ctx, id))
}

func (m *MockRepo) ListForActor(ctx context.Context, actorID string) ([]Subscription, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Subscription), args.Error(1)
}

func (m *MockRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockProfiles struct{ mock.Mock }

func (m *MockProfiles) FindByID(ctx context.Context, id string) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

var (
	fixedNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	subscriber = actor.Actor{ID: "sub-1", Role: actor.RoleSubscriber}
	influencer = &profile.Profile{
		ID: "inf-1", UserType: profile.TypeInfluencer, AccountStatus: profile.StatusActive,
		KYCStatus: profile.KYCVerified, SubscriptionPriceCents: 999,
	}
)

func newTestService(repo *MockRepo, profiles *MockProfiles) Service {
	return NewService(repo, profiles, func() time.Time { return fixedNow })
}

func TestSubscribe_Creates(t *testing.T) {
	repo, profiles := new(MockRepo), new(MockProfiles)
	profiles.On("FindByID", mock.Anything, "inf-1").Return(influencer, nil)
	repo.On("FindActive", mock.Anything, "sub-1", "inf-1").Return(nil, ErrSubscriptionNotFound)
	repo.On("Create", mock.Anything, "sub-1", "inf-1", int64(999), fixedNow.AddDate(0, 1, 0)).
		Return(&Subscription{ID: "s-1", Status: StatusActive}, nil)

	sub, created, err := newTestService(repo, profiles).Subscribe(context.Background(), subscriber, "inf-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "s-1", sub.ID)
}

func TestSubscribe_ReturnsExistingActive(t *testing.T) {
	repo, profiles := new(MockRepo), new(MockProfiles)
	existing := &Subscription{ID: "s-1", Status: StatusActive, ExpiresAt: fixedNow.Add(24 * time.Hour)}
	profiles.On("FindByID", mock.Anything, "inf-1").Return(influencer, nil)
	repo.On("FindActive", mock.Anything, "sub-1", "inf-1").Return(existing, nil)

	sub, created, err := newTestService(repo, profiles).Subscribe(context.Background(), subscriber, "inf-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "s-1", sub.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubscribe_LapsedIsExpiredFirst(t *testing.T) {
	repo, profiles := new(MockRepo), new(MockProfiles)
	lapsed := &Subscription{ID: "s-0", Status: StatusActive, ExpiresAt: fixedNow.Add(-time.Minute)}
	profiles.On("FindByID", mock.Anything, "inf-1").Return(influencer, nil)
	repo.On("FindActive", mock.Anything, "sub-1", "inf-1").Return(lapsed, nil)
	repo.On("ExpireDue", mock.Anything, fixedNow).Return(int64(1), nil)
	repo.On("Create", mock.Anything, "sub-1", "inf-1", int64(999), mock.Anything).
		Return(&Subscription{ID: "s-1", Status: StatusActive}, nil)

	_, created, err := newTestService(repo, profiles).Subscribe(context.Background(), subscriber, "inf-1")
	require.NoError(t, err)
	assert.True(t, created)
	repo.AssertExpectations(t)
}

func TestSubscribe_RaceReturnsWinner(t *testing.T) {
	repo, profiles := new(MockRepo), new(MockProfiles)
	winner := &Subscription{ID: "s-9", Status: StatusActive, ExpiresAt: fixedNow.AddDate(0, 1, 0)}
	profiles.On("FindByID", mock.Anything, "inf-1").Return(influencer, nil)
	repo.On("FindActive", mock.Anything, "sub-1", "inf-1").Return(nil, ErrSubscriptionNotFound).Once()
	repo.On("Create", mock.Anything, "sub-1", "inf-1", int64(999), mock.Anything).Return(nil, &pq.Error{Code: "23505"})
	repo.On("FindActive", mock.Anything, "sub-1", "inf-1").Return(winner, nil).Once()

	sub, created, err := newTestService(repo, profiles).Subscribe(context.Background(), subscriber, "inf-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "s-9", sub.ID)
}

func TestSubscribe_Guards(t *testing.T) {
	repo, profiles := new(MockRepo), new(MockProfiles)
	unverified := &profile.Profile{ID: "inf-2", UserType: profile.TypeInfluencer, AccountStatus: profile.StatusActive, KYCStatus: profile.KYCSubmitted}
	profiles.On("FindByID", mock.Anything, "inf-2").Return(unverified, nil)
	profiles.On("FindByID", mock.Anything, "ghost").Return(nil, profile.ErrProfileNotFound)
	svc := newTestService(repo, profiles)

	_, _, err := svc.Subscribe(context.Background(), actor.Actor{ID: "inf-3", Role: actor.RoleInfluencer}, "inf-1")
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	_, _, err = svc.Subscribe(context.Background(), subscriber, "sub-1")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, _, err = svc.Subscribe(context.Background(), subscriber, "inf-2")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, _, err = svc.Subscribe(context.Background(), subscriber, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCancel(t *testing.T) {
	repo := new(MockRepo)
	active := &Subscription{ID: "s-1", SubscriberID: "sub-1", Status: StatusActive}
	repo.On("GetByID", mock.Anything, "s-1").Return(active, nil)
	repo.On("Cancel", mock.Anything, "s-1").Return(&Subscription{ID: "s-1", SubscriberID: "sub-1", Status: StatusCancelled}, nil)

	sub, err := newTestService(repo, new(MockProfiles)).Cancel(context.Background(), subscriber, "s-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, sub.Status)
}

func TestCancel_Rejections(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetByID", mock.Anything, "s-1").Return(&Subscription{ID: "s-1", SubscriberID: "sub-1", Status: StatusCancelled}, nil)
	repo.On("GetByID", mock.Anything, "s-2").Return(&Subscription{ID: "s-2", SubscriberID: "sub-2", Status: StatusActive}, nil)
	svc := newTestService(repo, new(MockProfiles))

	_, err := svc.Cancel(context.Background(), subscriber, "s-1")
	var te *apperr.TransitionError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.AlreadyInState())

	_, err = svc.Cancel(context.Background(), subscriber, "s-2")
	assert.ErrorIs(t, err, apperr.ErrAuthorization)
}

func TestExpireDueUsesClock(t *testing.T) {
	repo := new(MockRepo)
	repo.On("ExpireDue", mock.Anything, fixedNow).Return(int64(2), nil)

	n, err := newTestService(repo, new(MockProfiles)).ExpireDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
