package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
)

const redisChannelPrefix = "changes:"

type RedisFeed struct {
	rdb *redis.Client
}

func NewRedisFeed(rdb *redis.Client) *RedisFeed {
	return &RedisFeed{rdb: rdb}
}

func (f *RedisFeed) Publish(ctx context.Context, e Event) error {
	data, err := encodeEvent(e)
	if err != nil {
		return err
	}
	return f.rdb.Publish(ctx, redisChannelPrefix+string(e.Table), data).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, handle func(context.Context, Event)) error {
	ps := f.rdb.PSubscribe(ctx, redisChannelPrefix+"*")
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return err
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			e, err := decodeEvent([]byte(msg.Payload))
			if err != nil {
				logger.Errorf("Bad change event on %s: %v", msg.Channel, err)
				continue
			}
			handle(ctx, e)
		}
	}
}
