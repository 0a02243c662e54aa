package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

// Channel is the NOTIFY channel the change triggers write to.
const Channel = "akist_changes"

// Listener relays NOTIFY payloads from PostgreSQL into a Hub.
type Listener struct {
	dsn string
	hub *Hub
}

func NewListener(dsn string, hub *Hub) *Listener {
	return &Listener{dsn: dsn, hub: hub}
}

// Run listens until ctx is cancelled. The underlying connection reconnects on
// its own; changes raised while disconnected are lost.
func (l *Listener) Run(ctx context.Context) error {
	pl := pq.NewListener(l.dsn, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("live: listener event %d: %v", ev, err)
		}
	})
	defer pl.Close()

	if err := pl.Listen(Channel); err != nil {
		return fmt.Errorf("listen %s: %w", Channel, err)
	}
	log.Printf("live: listening on %s", Channel)

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-pl.Notify:
			// nil after a reconnect
			if n == nil {
				continue
			}
			c, err := decodeChange(n.Extra)
			if err != nil {
				log.Printf("live: bad payload %q: %v", n.Extra, err)
				continue
			}
			l.hub.Publish(c)
		case <-ping.C:
			if err := pl.Ping(); err != nil {
				log.Printf("live: ping: %v", err)
			}
		}
	}
}

func decodeChange(payload string) (Change, error) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Change{}, err
	}
	if c.Collection == "" || c.ID == "" {
		return Change{}, fmt.Errorf("missing collection or id")
	}
	return c, nil
}
