package content

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/access"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/apperr"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) GetByID(ctx context.Context, id string) (*Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// callers mutate the item when locking it
	item := *args.Get(0).(*Item)
	return &item, args.Error(1)
}

func (m *MockRepo) ListByOwner(ctx context.Context, ownerID string, approvedOnly bool) ([]Item, error) {
	args := m.Called(ctx, ownerID, approvedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return append([]Item(nil), args.Get(0).([]Item)...), args.Error(1)
}

func (m *MockRepo) RecordPurchase(ctx context.Context, userID, contentID string, priceCents int64) (bool, error) {
	args := m.Called(ctx, userID, contentID, priceCents)
	return args.Bool(0), args.Error(1)
}

// memFacts answers from a purchase set, like the store would after a purchase.
type memFacts struct {
	mu         sync.Mutex
	subscribed map[string]bool
	purchased  map[string]bool
}

func newMemFacts() *memFacts {
	return &memFacts{subscribed: map[string]bool{}, purchased: map[string]bool{}}
}

func (f *memFacts) Lookup(_ context.Context, viewerID, ownerID, contentID string) access.Facts {
	f.mu.Lock()
	defer f.mu.Unlock()
	return access.Facts{
		IsOwner:                      viewerID == ownerID,
		HasActiveSubscriptionToOwner: f.subscribed[viewerID+"|"+ownerID],
		HasPurchasedThisItem:         f.purchased[viewerID+"|"+contentID],
	}
}

var (
	owner  = actor.Actor{ID: "inf-1", Role: actor.RoleInfluencer}
	viewer = actor.Actor{ID: "sub-1", Role: actor.RoleSubscriber}

	paid = &Item{ID: "c-1", OwnerID: "inf-1", Title: "Behind the scenes", Body: "secret",
		MediaURL: "https://cdn/x.mp4", IsPurchasable: true, PriceCents: 500, Status: StatusApproved}
	free  = &Item{ID: "c-2", OwnerID: "inf-1", Title: "Hello", Body: "open", IsFree: true, Status: StatusApproved}
	draft = &Item{ID: "c-3", OwnerID: "inf-1", Title: "WIP", Body: "draft", Status: StatusDraft}
)

func TestGet_LockedUntilPurchased(t *testing.T) {
	repo := new(MockRepo)
	facts := newMemFacts()
	repo.On("GetByID", mock.Anything, "c-1").Return(paid, nil)
	repo.On("RecordPurchase", mock.Anything, "sub-1", "c-1", int64(500)).
		Run(func(mock.Arguments) { facts.purchased["sub-1|c-1"] = true }).
		Return(true, nil)
	svc := NewService(repo, facts)

	item, err := svc.Get(context.Background(), viewer, "c-1")
	require.NoError(t, err)
	assert.True(t, item.Locked)
	assert.Empty(t, item.Body)
	assert.Empty(t, item.MediaURL)
	assert.Equal(t, "Behind the scenes", item.Title)

	_, err = svc.Purchase(context.Background(), viewer, "c-1")
	require.NoError(t, err)

	item, err = svc.Get(context.Background(), viewer, "c-1")
	require.NoError(t, err)
	assert.False(t, item.Locked)
	assert.Equal(t, "secret", item.Body)
}

func TestGet_SubscriptionUnlocks(t *testing.T) {
	repo := new(MockRepo)
	facts := newMemFacts()
	facts.subscribed["sub-1|inf-1"] = true
	repo.On("GetByID", mock.Anything, "c-1").Return(paid, nil)

	item, err := NewService(repo, facts).Get(context.Background(), viewer, "c-1")
	require.NoError(t, err)
	assert.False(t, item.Locked)
}

func TestGet_FreeAndOwner(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetByID", mock.Anything, "c-2").Return(free, nil)
	repo.On("GetByID", mock.Anything, "c-3").Return(draft, nil)
	svc := NewService(repo, newMemFacts())

	item, err := svc.Get(context.Background(), viewer, "c-2")
	require.NoError(t, err)
	assert.False(t, item.Locked)

	item, err = svc.Get(context.Background(), owner, "c-3")
	require.NoError(t, err)
	assert.Equal(t, "draft", item.Body)
}

func TestGet_UnapprovedHiddenFromOthers(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetByID", mock.Anything, "c-3").Return(draft, nil)
	repo.On("GetByID", mock.Anything, "nope").Return(nil, ErrContentNotFound)
	svc := NewService(repo, newMemFacts())

	_, err := svc.Get(context.Background(), viewer, "c-3")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Get(context.Background(), viewer, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListByOwner(t *testing.T) {
	repo := new(MockRepo)
	repo.On("ListByOwner", mock.Anything, "inf-1", true).Return([]Item{*paid, *free}, nil)
	repo.On("ListByOwner", mock.Anything, "inf-1", false).Return([]Item{*paid, *free, *draft}, nil)
	svc := NewService(repo, newMemFacts())

	items, err := svc.ListByOwner(context.Background(), viewer, "inf-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, items[0].Locked)
	assert.False(t, items[1].Locked)

	items, err = svc.ListByOwner(context.Background(), owner, "inf-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, it := range items {
		assert.False(t, it.Locked)
	}
}

func TestPurchase_Idempotent(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetByID", mock.Anything, "c-1").Return(paid, nil)
	repo.On("RecordPurchase", mock.Anything, "sub-1", "c-1", int64(500)).Return(true, nil).Once()
	repo.On("RecordPurchase", mock.Anything, "sub-1", "c-1", int64(500)).Return(false, nil).Once()
	svc := NewService(repo, newMemFacts())

	_, err := svc.Purchase(context.Background(), viewer, "c-1")
	require.NoError(t, err)
	_, err = svc.Purchase(context.Background(), viewer, "c-1")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPurchase_Guards(t *testing.T) {
	notForSale := &Item{ID: "c-4", OwnerID: "inf-1", Status: StatusApproved}

	repo := new(MockRepo)
	repo.On("GetByID", mock.Anything, "c-1").Return(paid, nil)
	repo.On("GetByID", mock.Anything, "c-2").Return(free, nil)
	repo.On("GetByID", mock.Anything, "c-3").Return(draft, nil)
	repo.On("GetByID", mock.Anything, "c-4").Return(notForSale, nil)
	svc := NewService(repo, newMemFacts())

	_, err := svc.Purchase(context.Background(), owner, "c-1")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Purchase(context.Background(), viewer, "c-2")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Purchase(context.Background(), viewer, "c-3")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Purchase(context.Background(), viewer, "c-4")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	repo.AssertNotCalled(t, "RecordPurchase", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
