package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/georgemunganga/akistapp-admin/internal/apperr"
	"github.com/georgemunganga/akistapp-admin/internal/modules/auth"
	"github.com/georgemunganga/akistapp-admin/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestHubFiltersByCollectionAndStore(t *testing.T) {
	hub := NewHub()
	all := hub.Subscribe(Filter{}, 8)
	orders := hub.Subscribe(Filter{Collection: "orders"}, 8)
	storeA := hub.Subscribe(Filter{Collection: "inventory", StoreID: "a"}, 8)
	require.Equal(t, 3, hub.Len())

	hub.Publish(Change{Collection: "orders", Op: "insert", ID: "1", StoreID: "a"})
	hub.Publish(Change{Collection: "inventory", Op: "update", ID: "2", StoreID: "b"})
	hub.Publish(Change{Collection: "inventory", Op: "delete", ID: "3", StoreID: "a"})

	require.Len(t, all.C, 3)
	require.Len(t, orders.C, 1)
	require.Len(t, storeA.C, 1)
	require.Equal(t, "3", (<-storeA.C).ID)

	orders.Close()
	orders.Close()
	_, open := <-orders.C
	require.False(t, open)
	require.Equal(t, 2, hub.Len())
}

func TestHubDropsForSlowSubscribers(t *testing.T) {
	hub := NewHub()
	slow := hub.Subscribe(Filter{}, 2)
	fast := hub.Subscribe(Filter{}, 16)

	for i := 0; i < 10; i++ {
		hub.Publish(Change{Collection: "orders", ID: uuid.NewString()})
	}
	require.Len(t, slow.C, 2)
	require.Len(t, fast.C, 10)
	require.EqualValues(t, 8, hub.dropped.Load())
}

func TestDecodeChange(t *testing.T) {
	c, err := decodeChange(`{"collection":"stores","op":"update","id":"s1","store_id":"s1"}`)
	require.NoError(t, err)
	require.Equal(t, Change{Collection: "stores", Op: "update", ID: "s1", StoreID: "s1"}, c)

	_, err = decodeChange(`{"op":"insert"}`)
	require.Error(t, err)
	_, err = decodeChange(`not json`)
	require.Error(t, err)
}

func TestFilterFor(t *testing.T) {
	admin := &user.User{Role: user.RoleAdmin}
	manager := &user.User{Role: user.RoleStoreManager, StoreID: "s1"}
	orphan := &user.User{Role: user.RoleStoreEmployee}
	customer := &user.User{Role: user.RoleCustomer}

	tests := []struct {
		name       string
		u          *user.User
		collection string
		storeID    string
		want       Filter
		wantErr    error
	}{
		{name: "admin any store", u: admin, collection: "orders", storeID: "s9", want: Filter{Collection: "orders", StoreID: "s9"}},
		{name: "admin everything", u: admin, want: Filter{}},
		{name: "manager pinned to own store", u: manager, collection: "inventory", want: Filter{Collection: "inventory", StoreID: "s1"}},
		{name: "manager explicit own store", u: manager, collection: "orders", storeID: "s1", want: Filter{Collection: "orders", StoreID: "s1"}},
		{name: "manager sees shared catalog", u: manager, collection: "products", want: Filter{Collection: "products"}},
		{name: "manager other store", u: manager, collection: "orders", storeID: "s2", wantErr: apperr.ErrForbidden},
		{name: "store role without store", u: orphan, collection: "orders", wantErr: apperr.ErrForbidden},
		{name: "customer", u: customer, collection: "orders", wantErr: apperr.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := filterFor(tt.u, tt.collection, tt.storeID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, f)
		})
	}

	_, err := filterFor(admin, "secrets", "")
	var v *apperr.ValidationError
	require.ErrorAs(t, err, &v)
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	msgs []Change
}

func (p *recordingPublisher) Publish(key, value []byte, _ ...kafka.Header) bool {
	var c Change
	if err := json.Unmarshal(value, &c); err != nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, string(key))
	p.msgs = append(p.msgs, c)
	return true
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

func TestKafkaRelayKeysByStore(t *testing.T) {
	hub := NewHub()
	pub := &recordingPublisher{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewKafkaRelay(hub, pub).Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish(Change{Collection: "orders", Op: "insert", ID: "o1", StoreID: "s1"})
	hub.Publish(Change{Collection: "products", Op: "update", ID: "p1"})
	require.Eventually(t, func() bool { return pub.count() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	require.Equal(t, []string{"s1", "p1"}, pub.keys)
	require.Equal(t, 0, hub.Len())
}

func TestStreamDeliversMatchingChanges(t *testing.T) {
	hub := NewHub()
	manager := &user.User{ID: uuid.New(), Role: user.RoleStoreManager, StoreID: "s1"}
	withPrincipal := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), manager)))
		})
	}
	router := chi.NewRouter()
	NewHandler(hub, nil).RegisterRoutes(router, withPrincipal)
	srv := httptest.NewServer(router)
	defer srv.Close()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/live?collection=orders&store_id=s2", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/live?collection=orders"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish(Change{Collection: "orders", Op: "insert", ID: "other", StoreID: "s2"})
	hub.Publish(Change{Collection: "inventory", Op: "insert", ID: "inv", StoreID: "s1"})
	hub.Publish(Change{Collection: "orders", Op: "update", ID: "mine", StoreID: "s1"})

	var got Change
	require.NoError(t, wsjson.Read(ctx, conn, &got))
	require.Equal(t, Change{Collection: "orders", Op: "update", ID: "mine", StoreID: "s1"}, got)
}
