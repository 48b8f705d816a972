package live

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const bridgeChannel = "fitlink:invalidations"

// RedisBridge fans invalidations out across server instances through Redis
// pub/sub. Local delivery never depends on Redis: a bridge outage only
// delays what other instances see.
type RedisBridge struct {
	bus        *Bus
	rdb        *redis.Client
	instanceID string
	logger     *zap.Logger
}

func NewRedisBridge(rdb *redis.Client, bus *Bus, logger *zap.Logger) *RedisBridge {
	return &RedisBridge{
		bus:        bus,
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     logger,
	}
}

// Publish delivers to the local bus first, then forwards to peers.
func (br *RedisBridge) Publish(topics ...Topic) {
	br.bus.Publish(topics...)
	ctx := context.Background()
	for _, t := range topics {
		payload := br.instanceID + "|" + string(t)
		if err := br.rdb.Publish(ctx, bridgeChannel, payload).Err(); err != nil {
			br.logger.Warn("live: redis publish failed", zap.String("topic", string(t)), zap.Error(err))
		}
	}
}

// Run consumes peer invalidations and republishes them locally, skipping
// the ones this instance originated. Blocks until ctx is cancelled.
func (br *RedisBridge) Run(ctx context.Context) error {
	sub := br.rdb.Subscribe(ctx, bridgeChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			origin, topic, found := strings.Cut(msg.Payload, "|")
			if !found {
				br.logger.Warn("live: malformed bridge payload", zap.String("payload", msg.Payload))
				continue
			}
			if origin == br.instanceID {
				continue
			}
			br.bus.Publish(Topic(topic))
		}
	}
}
