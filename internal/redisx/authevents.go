package redisx

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// AuthEventKind names a change in a principal's authentication state.
type AuthEventKind string

const (
	AuthSignedIn       AuthEventKind = "signed_in"
	AuthSignedOut      AuthEventKind = "signed_out"
	AuthProfileChanged AuthEventKind = "profile_changed"
)

// AuthEvent is published on the principal's channel whenever its auth state
// changes. TokenID names the token a sign-in issued or a sign-out revoked; it
// is empty for profile changes.
type AuthEvent struct {
	PrincipalID string        `json:"principal_id"`
	TokenID     string        `json:"token_id,omitempty"`
	Kind        AuthEventKind `json:"kind"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// AuthEventBus fans auth events out over Redis pub/sub so every API instance
// holding a session stream for the principal sees them.
type AuthEventBus struct {
	rdb *redis.Client
}

func NewAuthEventBus(rdb *redis.Client) *AuthEventBus { return &AuthEventBus{rdb: rdb} }

func (b *AuthEventBus) Publish(ctx context.Context, ev AuthEvent) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, fmt.Sprintf(ChannelAuthEvents, ev.PrincipalID), payload).Err()
}

// Subscribe delivers the principal's events until ctx is done. The returned
// channel is closed when the subscription ends.
func (b *AuthEventBus) Subscribe(ctx context.Context, principalID string) (<-chan AuthEvent, error) {
	sub := b.rdb.Subscribe(ctx, fmt.Sprintf(ChannelAuthEvents, principalID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe auth events: %w", err)
	}

	out := make(chan AuthEvent, 8)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev AuthEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Printf("redisx: drop malformed auth event: %v", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
