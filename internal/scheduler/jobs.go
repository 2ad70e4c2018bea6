package scheduler

import (
	"context"
	"time"
)

type SessionSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

type SubscriptionExpirer interface {
	ExpireDue(ctx context.Context) (int64, error)
}

func SessionSweepJob(spec string, sweeper SessionSweeper) Job {
	return Job{
		Name:    "session_sweep",
		Spec:    spec,
		Timeout: 30 * time.Second,
		Run: func(ctx context.Context) error {
			_, err := sweeper.SweepExpired(ctx)
			return err
		},
	}
}

func SubscriptionExpiryJob(spec string, expirer SubscriptionExpirer) Job {
	return Job{
		Name:    "subscription_expiry",
		Spec:    spec,
		Timeout: 2 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := expirer.ExpireDue(ctx)
			return err
		},
	}
}
