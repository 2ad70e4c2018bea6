// Package realtime carries row-change events from writers to websocket
// clients. Events only name a row; consumers re-read it before pushing.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/metrics"
)

type Table string

const (
	TableBookings Table = "bookings"
	TableSessions Table = "streaming_sessions"
	TableMessages Table = "messages"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
)

type Event struct {
	Table Table     `json:"table"`
	Op    Op        `json:"op"`
	RowID string    `json:"row_id"`
	At    time.Time `json:"at"`
}

func (e Event) RoutingKey() string {
	return string(e.Table) + "." + string(e.Op)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber blocks delivering events to handle until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, handle func(context.Context, Event)) error
}

// Emit publishes best-effort. Failures are logged, never returned.
func Emit(ctx context.Context, pub Publisher, table Table, op Op, rowID string) {
	if pub == nil {
		return
	}
	e := Event{Table: table, Op: op, RowID: rowID, At: time.Now().UTC()}
	if err := pub.Publish(ctx, e); err != nil {
		logger.WithError(err).Warn("change event dropped", "table", string(table), "row_id", rowID)
		return
	}
	metrics.RecordChangeEvent(string(table), "published")
}

func encodeEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}

func decodeEvent(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

type NopFeed struct{}

func (NopFeed) Publish(context.Context, Event) error { return nil }

func (NopFeed) Subscribe(ctx context.Context, _ func(context.Context, Event)) error {
	<-ctx.Done()
	return nil
}
