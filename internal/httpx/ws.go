package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const wsWriteTimeout = 5 * time.Second

// AcceptWebSocket upgrades the request. An empty origins list keeps the
// library's same-origin check.
func AcceptWebSocket(w http.ResponseWriter, r *http.Request, origins []string) (*websocket.Conn, error) {
	opts := &websocket.AcceptOptions{}
	if len(origins) > 0 {
		opts.OriginPatterns = origins
	}
	return websocket.Accept(w, r, opts)
}

// WriteJSON sends v on conn with a bounded write deadline.
func WriteJSON(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, v)
}
