package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/apperr"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/db"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/metrics"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/profile"
)

type Service interface {
	// Subscribe returns the existing active subscription when there is one.
	Subscribe(ctx context.Context, a actor.Actor, influencerID string) (sub *Subscription, created bool, err error)
	Cancel(ctx context.Context, a actor.Actor, id string) (*Subscription, error)
	ListMine(ctx context.Context, a actor.Actor) ([]Subscription, error)
	ExpireDue(ctx context.Context) (int64, error)
}

type Profiles interface {
	FindByID(ctx context.Context, id string) (*profile.Profile, error)
}

type service struct {
	repo     Repository
	profiles Profiles
	now      func() time.Time
}

func NewService(repo Repository, profiles Profiles, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, profiles: profiles, now: now}
}

func (s *service) Subscribe(ctx context.Context, a actor.Actor, influencerID string) (*Subscription, bool, error) {
	if a.Role != actor.RoleSubscriber {
		return nil, false, apperr.Authorization("only subscribers can subscribe")
	}
	if a.Is(influencerID) {
		return nil, false, apperr.Validation("cannot subscribe to yourself")
	}

	inf, err := s.profiles.FindByID(ctx, influencerID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, false, apperr.NotFound("influencer")
	}
	if err != nil {
		return nil, false, err
	}
	if !inf.CanSell() {
		return nil, false, apperr.Validation("influencer is not accepting subscribers")
	}

	now := s.now()
	existing, err := s.repo.FindActive(ctx, a.ID, inf.ID)
	switch {
	case err == nil && existing.ActiveAt(now):
		return existing, false, nil
	case err == nil:
		// lapsed but not swept yet; free the pair for a new row
		if _, err := s.repo.ExpireDue(ctx, now); err != nil {
			return nil, false, err
		}
	case !errors.Is(err, ErrSubscriptionNotFound):
		return nil, false, err
	}

	sub, err := s.repo.Create(ctx, a.ID, inf.ID, inf.SubscriptionPriceCents, expiryFrom(now))
	if db.IsUniqueViolation(err) {
		// a concurrent request won; hand back its row
		existing, ferr := s.repo.FindActive(ctx, a.ID, inf.ID)
		if ferr != nil {
			return nil, false, ferr
		}
		return existing, false, nil
	}
	if err != nil {
		logger.WithError(err).Error("failed to create subscription", "subscriber_id", a.ID, "influencer_id", inf.ID)
		return nil, false, err
	}

	metrics.RecordSubscription()
	logger.Info("subscription created", "subscription_id", sub.ID, "subscriber_id", a.ID, "influencer_id", inf.ID)
	return sub, true, nil
}

func (s *service) Cancel(ctx context.Context, a actor.Actor, id string) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return nil, apperr.NotFound("subscription")
	}
	if err != nil {
		return nil, err
	}
	if !a.Is(sub.SubscriberID) && a.Role != actor.RoleAdmin {
		return nil, apperr.Authorization("only the subscriber can cancel")
	}
	if sub.Status != StatusActive {
		return nil, apperr.Transition("subscription", "cancel", string(sub.Status), string(StatusCancelled))
	}

	cancelled, err := s.repo.Cancel(ctx, id)
	if errors.Is(err, ErrNotActive) {
		current, gerr := s.repo.GetByID(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		return nil, apperr.Transition("subscription", "cancel", string(current.Status), string(StatusCancelled))
	}
	if err != nil {
		return nil, err
	}

	logger.Info("subscription cancelled", "subscription_id", id)
	return cancelled, nil
}

func (s *service) ListMine(ctx context.Context, a actor.Actor) ([]Subscription, error) {
	return s.repo.ListForActor(ctx, a.ID)
}

func (s *service) ExpireDue(ctx context.Context) (int64, error) {
	n, err := s.repo.ExpireDue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("subscriptions expired", "count", n)
	}
	return n, nil
}
