package live

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

// Publisher is the subset of the Kafka producer the relay needs.
type Publisher interface {
	Publish(key, value []byte, headers ...kafka.Header) bool
}

// KafkaRelay forwards every change to a Kafka topic, keyed by store so that
// one store's changes stay ordered within a partition.
type KafkaRelay struct {
	hub *Hub
	pub Publisher
}

func NewKafkaRelay(hub *Hub, pub Publisher) *KafkaRelay {
	return &KafkaRelay{hub: hub, pub: pub}
}

// Run relays until ctx is cancelled.
func (r *KafkaRelay) Run(ctx context.Context) {
	sub := r.hub.Subscribe(Filter{}, 1024)
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-sub.C:
			if !ok {
				return
			}
			r.forward(c)
		}
	}
}

func (r *KafkaRelay) forward(c Change) {
	value, err := json.Marshal(c)
	if err != nil {
		log.Printf("live: marshal change: %v", err)
		return
	}
	key := c.StoreID
	if key == "" {
		key = c.ID
	}
	headers := []kafka.Header{
		{Key: "collection", Value: []byte(c.Collection)},
		{Key: "op", Value: []byte(c.Op)},
	}
	if !r.pub.Publish([]byte(key), value, headers...) {
		log.Printf("live: kafka inbox full, dropped %s %s", c.Collection, c.ID)
	}
}
