package realtime

import (
	"context"
	"fmt"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/metrics"
)

// Snapshot is the current state of one row and who may see it.
type Snapshot struct {
	Recipients []string
	Data       interface{}
}

type Loader interface {
	Load(ctx context.Context, e Event) (Snapshot, error)
}

type LoaderFunc func(ctx context.Context, rowID string) (Snapshot, error)

// Loaders dispatches by table.
type Loaders map[Table]LoaderFunc

func (l Loaders) Load(ctx context.Context, e Event) (Snapshot, error) {
	fn, ok := l[e.Table]
	if !ok {
		return Snapshot{}, fmt.Errorf("no loader for table %s", e.Table)
	}
	return fn(ctx, e.RowID)
}

// Relay turns change events into pushes. The pushed payload always comes from
// a fresh read, so duplicate or stale events are harmless.
type Relay struct {
	feed   Subscriber
	loader Loader
	sender Sender
}

func NewRelay(feed Subscriber, loader Loader, sender Sender) *Relay {
	return &Relay{feed: feed, loader: loader, sender: sender}
}

func (r *Relay) Run(ctx context.Context) error {
	logger.Info("Change relay started")
	defer logger.Info("Change relay stopped")
	return r.feed.Subscribe(ctx, r.Handle)
}

func (r *Relay) Handle(ctx context.Context, e Event) {
	metrics.RecordChangeEvent(string(e.Table), "received")

	snap, err := r.loader.Load(ctx, e)
	if err != nil {
		logger.WithError(err).Warn("change event reload failed", "table", string(e.Table), "row_id", e.RowID)
		return
	}

	msg := Message{Type: "change", Table: e.Table, Op: e.Op, RowID: e.RowID, At: e.At, Data: snap.Data}
	for _, userID := range snap.Recipients {
		if err := r.sender.SendToUser(userID, msg); err != nil {
			logger.Debug("change push skipped", "user_id", userID, "error", err.Error())
		}
	}
}
