// Package kafka publishes change events to a Kafka topic for downstream
// consumers.
package kafka

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxBatch bounds how many queued messages go out in one write.
const maxBatch = 100

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes messages from an in-memory inbox on its own goroutine.
// Publish never blocks the caller.
type Producer struct {
	w     messageWriter
	topic string
	inbox chan kafka.Message
	done  chan struct{}
	once  sync.Once
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchSize:    maxBatch,
		BatchTimeout: 10 * time.Millisecond,
	}, topic, buf)
}

func newProducer(w messageWriter, topic string, buf int) *Producer {
	return &Producer{
		w:     w,
		topic: topic,
		inbox: make(chan kafka.Message, buf),
		done:  make(chan struct{}),
	}
}

// Start runs the write loop until Close drains the inbox. Each write takes
// everything already queued, up to maxBatch messages.
func (p *Producer) Start() {
	go func() {
		defer close(p.done)
		batch := make([]kafka.Message, 0, maxBatch)
		for m := range p.inbox {
			batch = append(batch[:0], m)
			batch = p.drain(batch)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.w.WriteMessages(ctx, batch...); err != nil {
				log.Printf("kafka: write %d messages to %s: %v", len(batch), p.topic, err)
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			log.Printf("kafka: close writer: %v", err)
		}
	}()
}

func (p *Producer) drain(batch []kafka.Message) []kafka.Message {
	for len(batch) < maxBatch {
		select {
		case m, ok := <-p.inbox:
			if !ok {
				return batch
			}
			batch = append(batch, m)
		default:
			return batch
		}
	}
	return batch
}

// Publish queues a message. It reports false when the inbox is full and the
// message was dropped.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) bool {
	select {
	case p.inbox <- kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}:
		return true
	default:
		return false
	}
}

// Close stops accepting messages, flushes the queued ones and waits for the
// writer to shut down. Publish must not be called after Close.
func (p *Producer) Close() {
	p.once.Do(func() { close(p.inbox) })
	<-p.done
}
