package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Subscribe streams change events to fn until ctx is cancelled or the
// connection drops. A cancelled context returns nil.
func (c *Client) Subscribe(ctx context.Context, s *Session, fn func(domain.ChangeEvent)) error {
	if !s.valid() {
		return ErrNoSession
	}

	u := c.baseURL.JoinPath("/api/events")
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.timeout,
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.Token)

	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return statusError(resp.StatusCode, nil)
		}
		return fmt.Errorf("%w: subscribe: %w", ErrTransport, err)
	}
	defer conn.Close()
	c.logger.Info("change feed connected", zap.String("url", u.Redacted()))

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var event domain.ChangeEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			c.logger.Warn("change feed closed", zap.Error(err))
			return fmt.Errorf("%w: change feed: %w", ErrTransport, err)
		}
		fn(event)
	}
}
