package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/metrics"
	"github.com/digitalgoods/storefront/internal/pkg/notify"
)

const cartChangedType = "cart.changed"

// cartEnvelope is the wire form of a relayed cart change.
type cartEnvelope struct {
	Type       string    `json:"type"`
	InstanceID string    `json:"instance_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// CartRelay shares cart-changed signals between console instances that act
// for the same customer. Local signals are published on a Redis channel;
// signals from other instances are re-published on the local topic, skipping
// the relay's own subscription so they do not bounce back.
type CartRelay struct {
	client     *redis.Client
	channel    string
	instanceID string
	topic      *notify.Topic[domain.CartChanged]
	log        zerolog.Logger

	sub  *notify.Subscription
	kick chan struct{}
}

func NewCartRelay(client *redis.Client, channel string, topic *notify.Topic[domain.CartChanged], log zerolog.Logger) *CartRelay {
	return &CartRelay{
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
		topic:      topic,
		log:        log.With().Str("component", "cart_relay").Logger(),
		kick:       make(chan struct{}, 1),
	}
}

// InstanceID identifies this process on the channel.
func (r *CartRelay) InstanceID() string {
	return r.instanceID
}

// Run relays in both directions until ctx is cancelled.
func (r *CartRelay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("cart relay subscribe %s: %w", r.channel, err)
	}

	r.sub = r.topic.Subscribe(r.onLocal)
	defer r.sub.Unsubscribe()

	r.log.Info().Str("channel", r.channel).Str("instance_id", r.instanceID).Msg("cart relay started")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.kick:
			if err := r.publish(ctx); err != nil {
				r.log.Warn().Err(err).Msg("cart relay publish failed")
			}
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			r.handle(msg.Payload)
		}
	}
}

// onLocal runs in the publisher's goroutine, so it only schedules the
// network publish. Signals that arrive while one is pending are merged.
func (r *CartRelay) onLocal(domain.CartChanged) {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

func (r *CartRelay) publish(ctx context.Context) error {
	data, err := json.Marshal(cartEnvelope{
		Type:       cartChangedType,
		InstanceID: r.instanceID,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal cart event: %w", err)
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

// handle applies one inbound message and reports whether it was relayed.
func (r *CartRelay) handle(payload string) bool {
	var env cartEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.log.Warn().Err(err).Str("payload", payload).Msg("cart relay: undecodable message")
		return false
	}
	if env.Type != cartChangedType || env.InstanceID == r.instanceID {
		return false
	}

	metrics.CartSignalsTotal.WithLabelValues("remote").Inc()
	r.topic.PublishExcept(r.sub, domain.CartChanged{})
	return true
}
