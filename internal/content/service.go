package content

import (
	"context"
	"errors"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/access"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/actor"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/apperr"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/metrics"
)

type Service interface {
	Get(ctx context.Context, a actor.Actor, id string) (*Item, error)
	ListByOwner(ctx context.Context, a actor.Actor, ownerID string) ([]Item, error)
	Purchase(ctx context.Context, a actor.Actor, id string) (*Item, error)
}

type service struct {
	repo  Repository
	facts access.FactsLookup
}

func NewService(repo Repository, facts access.FactsLookup) Service {
	return &service{repo: repo, facts: facts}
}

func (s *service) Get(ctx context.Context, a actor.Actor, id string) (*Item, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	d := s.decide(ctx, a, item)
	if d == access.DeniedUnapproved {
		// unapproved items are invisible to everyone but the owner
		return nil, apperr.NotFound("content")
	}
	if !d.Allowed() {
		item.lock()
	}
	return item, nil
}

func (s *service) ListByOwner(ctx context.Context, a actor.Actor, ownerID string) ([]Item, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID, !a.Is(ownerID))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	for i := range items {
		if !s.decide(ctx, a, &items[i]).Allowed() {
			items[i].lock()
		}
	}
	return items, nil
}

func (s *service) Purchase(ctx context.Context, a actor.Actor, id string) (*Item, error) {
	item, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case item.Status != StatusApproved:
		return nil, apperr.NotFound("content")
	case a.Is(item.OwnerID):
		return nil, apperr.Validation("cannot purchase your own content")
	case item.IsFree:
		return nil, apperr.Validation("content is free")
	case !item.IsPurchasable:
		return nil, apperr.Validation("content is not for sale")
	}

	created, err := s.repo.RecordPurchase(ctx, a.ID, item.ID, item.PriceCents)
	if err != nil {
		return nil, err
	}
	if created {
		metrics.RecordContentPurchase()
		logger.Info("content purchased", "content_id", item.ID, "user_id", a.ID, "price_cents", item.PriceCents)
	}
	return item, nil
}

func (s *service) load(ctx context.Context, id string) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrContentNotFound) {
		return nil, apperr.NotFound("content")
	}
	return item, err
}

func (s *service) decide(ctx context.Context, a actor.Actor, item *Item) access.Decision {
	var facts access.Facts
	if item.Status == StatusApproved && !item.IsFree && !a.Is(item.OwnerID) {
		facts = s.facts.Lookup(ctx, a.ID, item.OwnerID, item.ID)
	}
	d := access.Decide(a, item.Gate(), facts)
	metrics.RecordAccessDecision(string(d))
	return d
}
