package access

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
)

type FactsLookup interface {
	Lookup(ctx context.Context, viewerID, ownerID, contentID string) Facts
}

type factsRepository struct {
	db *sqlx.DB
}

func NewFactsRepository(db *sqlx.DB) FactsLookup {
	return &factsRepository{db: db}
}

const factsQuery = `
	SELECT
		EXISTS(
			SELECT 1 FROM subscriptions
			WHERE subscriber_id = $1 AND influencer_id = $2
			  AND status = 'active' AND expires_at > NOW()
		) AS has_subscription,
		EXISTS(
			SELECT 1 FROM user_purchased_content
			WHERE user_id = $1 AND content_id = $3
		) AS has_purchased
`

// Lookup never fails: a store error is logged and yields false facts.
func (r *factsRepository) Lookup(ctx context.Context, viewerID, ownerID, contentID string) Facts {
	facts := Facts{IsOwner: viewerID != "" && viewerID == ownerID}
	if viewerID == "" || facts.IsOwner {
		return facts
	}

	var row struct {
		HasSubscription bool `db:"has_subscription"`
		HasPurchased    bool `db:"has_purchased"`
	}
	if err := r.db.GetContext(ctx, &row, factsQuery, viewerID, ownerID, contentID); err != nil {
		logger.WithError(err).Warn("access facts lookup failed", "viewer_id", viewerID, "content_id", contentID)
		return facts
	}

	facts.HasActiveSubscriptionToOwner = row.HasSubscription
	facts.HasPurchasedThisItem = row.HasPurchased
	return facts
}
