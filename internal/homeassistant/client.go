// Package homeassistant is a Home Assistant client implementing host.Host over
// the WebSocket API, plus the REST and service calls used for the shared
// catalog file.
package homeassistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	// ErrAuthInvalid is returned when Home Assistant rejects the access token
	ErrAuthInvalid = errors.New("homeassistant: invalid access token")
	// ErrClosed is returned for calls made after the connection ended
	ErrClosed = errors.New("homeassistant: connection closed")
)

// Error is a failed command result
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("homeassistant: %s: %s", e.Code, e.Message)
}

type message struct {
	ID      int             `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success bool            `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	Event   json.RawMessage `json:"event,omitempty"`
	Message string          `json:"message,omitempty"`
}

type result struct {
	data json.RawMessage
	err  error
}

// eventBuffer is the per-subscription buffer; the reader never blocks on a
// slow subscriber and drops events instead.
const eventBuffer = 16

// Client is a connected Home Assistant session.
type Client struct {
	baseURL *url.URL
	token   string
	log     *zap.Logger
	http    *http.Client

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int
	pending map[int]chan result
	subs    map[int]chan json.RawMessage
	err     error

	closed chan struct{}
	done   chan struct{}
}

// Dial connects to the Home Assistant instance at baseURL (for example
// http://homeassistant.local:8123) and authenticates with token.
func Dial(ctx context.Context, baseURL, token string, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}

	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid Home Assistant URL: %w", err)
	}
	wsURL, err := websocketURL(base)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", wsURL, err)
	}

	c := &Client{
		baseURL: base,
		token:   token,
		log:     log,
		http:    &http.Client{Timeout: 10 * time.Second},
		conn:    conn,
		pending: make(map[int]chan result),
		subs:    make(map[int]chan json.RawMessage),
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
	}

	if err := c.authenticate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	go c.readLoop()
	log.Info("connected to Home Assistant", zap.String("url", base.Redacted()))
	return c, nil
}

func websocketURL(base *url.URL) (string, error) {
	u := *base
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/websocket"
	return u.String(), nil
}

func (c *Client) authenticate(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetReadDeadline(deadline)
		defer c.conn.SetReadDeadline(time.Time{})
	}

	var msg message
	if err := c.conn.ReadJSON(&msg); err != nil {
		return fmt.Errorf("read auth request: %w", err)
	}
	if msg.Type != "auth_required" {
		return fmt.Errorf("unexpected message %q during handshake", msg.Type)
	}

	if err := c.conn.WriteJSON(map[string]string{"type": "auth", "access_token": c.token}); err != nil {
		return fmt.Errorf("send auth: %w", err)
	}

	if err := c.conn.ReadJSON(&msg); err != nil {
		return fmt.Errorf("read auth response: %w", err)
	}
	switch msg.Type {
	case "auth_ok":
		return nil
	case "auth_invalid":
		return ErrAuthInvalid
	default:
		return fmt.Errorf("unexpected message %q during handshake", msg.Type)
	}
}

func (c *Client) readLoop() {
	defer close(c.done)

	for {
		var msg message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.shutdown(err)
			return
		}

		switch msg.Type {
		case "result":
			c.mu.Lock()
			ch, ok := c.pending[msg.ID]
			delete(c.pending, msg.ID)
			c.mu.Unlock()
			if !ok {
				continue
			}
			if msg.Success {
				ch <- result{data: msg.Result}
			} else if msg.Error != nil {
				ch <- result{err: msg.Error}
			} else {
				ch <- result{err: &Error{Code: "unknown_error", Message: "command failed"}}
			}

		case "event":
			// Sent under the lock so Unsubscribe cannot close ch mid-send
			c.mu.Lock()
			if ch, ok := c.subs[msg.ID]; ok {
				select {
				case ch <- msg.Event:
				default:
					c.log.Warn("dropping event for slow subscriber", zap.Int("subscription", msg.ID))
				}
			}
			c.mu.Unlock()

		default:
			c.log.Debug("ignoring message", zap.String("type", msg.Type))
		}
	}
}

func (c *Client) shutdown(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.closed:
		return
	default:
	}

	if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, net.ErrClosed) {
		err = ErrClosed
	}
	c.err = err
	close(c.closed)

	for id, ch := range c.pending {
		ch <- result{err: ErrClosed}
		delete(c.pending, id)
	}
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.log.Info("Home Assistant connection ended", zap.Error(err))
}

// Err returns the reason the connection ended, or nil while it is open
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.closed
}

// Close closes the connection and waits for the reader to stop
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()

	err := c.conn.Close()
	<-c.done
	c.http.CloseIdleConnections()
	return err
}

// register reserves a message id. When sub is true, events carrying that id
// are routed to the returned channel.
func (c *Client) register(sub bool) (int, chan result, chan json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.closed:
		return 0, nil, nil, ErrClosed
	default:
	}

	c.nextID++
	id := c.nextID
	res := make(chan result, 1)
	c.pending[id] = res

	var events chan json.RawMessage
	if sub {
		events = make(chan json.RawMessage, eventBuffer)
		c.subs[id] = events
	}
	return id, res, events, nil
}

func (c *Client) forget(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
	if ch, ok := c.subs[id]; ok {
		close(ch)
		delete(c.subs, id)
	}
}

func (c *Client) send(id int, payload map[string]any) error {
	payload["id"] = id

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(payload); err != nil {
		return fmt.Errorf("send %v: %w", payload["type"], err)
	}
	return nil
}

func (c *Client) wait(ctx context.Context, id int, res chan result) (json.RawMessage, error) {
	select {
	case r := <-res:
		return r.data, r.err
	case <-ctx.Done():
		c.forget(id)
		return nil, ctx.Err()
	}
}

// Call sends a command and waits for its result
func (c *Client) Call(ctx context.Context, payload map[string]any) (json.RawMessage, error) {
	id, res, _, err := c.register(false)
	if err != nil {
		return nil, err
	}
	if err := c.send(id, payload); err != nil {
		c.forget(id)
		return nil, err
	}
	return c.wait(ctx, id, res)
}

// Subscribe sends a subscription command and returns the raw events. The
// channel is closed by Unsubscribe or when the connection ends.
func (c *Client) Subscribe(ctx context.Context, payload map[string]any) (int, <-chan json.RawMessage, error) {
	id, res, events, err := c.register(true)
	if err != nil {
		return 0, nil, err
	}
	if err := c.send(id, payload); err != nil {
		c.forget(id)
		return 0, nil, err
	}
	if _, err := c.wait(ctx, id, res); err != nil {
		c.forget(id)
		return 0, nil, err
	}
	return id, events, nil
}

// Unsubscribe ends a subscription created by Subscribe
func (c *Client) Unsubscribe(ctx context.Context, subscription int) error {
	c.mu.Lock()
	if ch, ok := c.subs[subscription]; ok {
		close(ch)
		delete(c.subs, subscription)
	}
	c.mu.Unlock()

	_, err := c.Call(ctx, map[string]any{
		"type":         "unsubscribe_events",
		"subscription": subscription,
	})
	return err
}

// CallService invokes a Home Assistant service
func (c *Client) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	_, err := c.Call(ctx, map[string]any{
		"type":         "call_service",
		"domain":       domain,
		"service":      service,
		"service_data": data,
	})
	if err != nil {
		return fmt.Errorf("call %s.%s: %w", domain, service, err)
	}
	return nil
}
