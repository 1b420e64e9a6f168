// Package wsapi serves the product manager over a WebSocket API.
package wsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"shoplist/internal/manager"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pingInterval = 20 * time.Second
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	maxMessage   = 64 << 10
)

// Server exposes a manager.Manager to WebSocket clients.
type Server struct {
	m        *manager.Manager
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[*conn]struct{}
	closed bool
	wg     sync.WaitGroup
}

// New creates a server for m
func New(m *manager.Manager, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		m:        m,
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		conns:    make(map[*conn]struct{}),
	}
}

// Routes returns the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"products": len(s.m.Products()),
			"active":   len(s.m.Active()),
		})
	})
	r.Get("/api/websocket", s.serveWS)
	return r
}

// Close disconnects every client and waits for their handlers to finish
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	for c := range s.conns {
		_ = c.ws.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &conn{
		s:    s,
		ws:   ws,
		subs: make(map[int]func()),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = ws.Close()
		return
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
		s.wg.Done()
	}()

	s.log.Debug("client connected", zap.String("remote", r.RemoteAddr))
	c.serve()
	s.log.Debug("client disconnected", zap.String("remote", r.RemoteAddr))
}

// conn is one client connection
type conn struct {
	s  *Server
	ws *websocket.Conn

	writeMu sync.Mutex

	// lastID is only touched by the read loop
	lastID int

	subMu sync.Mutex
	subs  map[int]func()
	subWG sync.WaitGroup

	done chan struct{}
}

func (c *conn) serve() {
	defer func() {
		close(c.done)
		c.subMu.Lock()
		for id, cancel := range c.subs {
			cancel()
			delete(c.subs, id)
		}
		c.subMu.Unlock()
		c.subWG.Wait()
		_ = c.ws.Close()
	}()

	go c.keepalive()

	c.ws.SetReadLimit(maxMessage)
	_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))

		resp := c.handle(data)
		if err := c.write(resp); err != nil {
			return
		}
	}
}

func (c *conn) keepalive() {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.writeMu.Lock()
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *conn) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

func (c *conn) handle(data []byte) response {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		return failure(0, CodeInvalidFormat, "Message incorrectly formatted.")
	}
	if req.ID <= 0 || req.Type == "" {
		return failure(req.ID, CodeInvalidFormat, "Message incorrectly formatted: id and type are required.")
	}
	if req.ID <= c.lastID {
		return failure(req.ID, CodeIDReuse, "Identifier values have to increase.")
	}
	c.lastID = req.ID

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	log := c.s.log.With(zap.Int("id", req.ID), zap.String("type", req.Type))
	m := c.s.m

	switch req.Type {
	case CmdAddProduct:
		if req.Key == nil || req.Name == nil {
			return failure(req.ID, CodeInvalidFormat, "key and name are required")
		}
		p, err := m.AddProduct(ctx, manager.Product{
			Key:      *req.Key,
			Name:     *req.Name,
			Category: req.Category,
			Unit:     req.Unit,
			Image:    req.Image,
		})
		if err != nil {
			log.Error("error adding product", zap.Error(err))
			return commandFailure(req, err)
		}
		return success(req.ID, p)

	case CmdSetQty:
		if req.Key == nil || req.Qty == nil {
			return failure(req.ID, CodeInvalidFormat, "key and qty are required")
		}
		if *req.Qty < 0 {
			return failure(req.ID, CodeInvalidFormat, "qty must be at least 0")
		}
		if err := m.SetQty(ctx, *req.Key, *req.Qty); err != nil {
			if errors.Is(err, manager.ErrInvariantViolation) {
				log.Warn("invariant violation in set_qty", zap.Error(err))
			} else {
				log.Error("error setting quantity", zap.Error(err))
			}
			return commandFailure(req, err)
		}
		return success(req.ID, map[string]bool{"success": true})

	case CmdGetProducts:
		return success(req.ID, m.Products())

	case CmdGetActive:
		return success(req.ID, m.Active())

	case CmdGetFullState:
		st, err := m.FullState()
		if err != nil {
			log.Error("error getting full state", zap.Error(err))
			return commandFailure(req, err)
		}
		return success(req.ID, st)

	case CmdDeleteProduct:
		if req.Key == nil {
			return failure(req.ID, CodeInvalidFormat, "key is required")
		}
		if err := m.DeleteProduct(ctx, *req.Key); err != nil {
			log.Error("error deleting product", zap.Error(err))
			return commandFailure(req, err)
		}
		return success(req.ID, map[string]bool{"success": true})

	case CmdSubscribe:
		c.subscribe(req.ID)
		return success(req.ID, nil)

	case CmdUnsubscribe:
		if !c.unsubscribe(req.Subscription) {
			return failure(req.ID, CodeNotFound, "Subscription not found.")
		}
		return success(req.ID, nil)

	default:
		return failure(req.ID, CodeUnknownCommand, "Unknown command.")
	}
}

// commandFailure maps a manager error to its error code
func commandFailure(req request, err error) response {
	if errors.Is(err, manager.ErrInvariantViolation) {
		return failure(req.ID, CodeInvariantViolation, err.Error())
	}
	name := strings.TrimPrefix(req.Type, "shopping_list_manager/")
	return failure(req.ID, fmt.Sprintf("%s_failed", name), err.Error())
}

func (c *conn) subscribe(id int) {
	changes, cancel := c.s.m.Subscribe()

	c.subMu.Lock()
	c.subs[id] = cancel
	c.subMu.Unlock()

	c.subWG.Add(1)
	go func() {
		defer c.subWG.Done()
		for range changes {
			ev := event{ID: id, Type: "event", Event: eventBody{EventType: EventUpdated}}
			if err := c.write(ev); err != nil {
				return
			}
		}
	}()
}

func (c *conn) unsubscribe(id int) bool {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	cancel, ok := c.subs[id]
	if ok {
		cancel()
		delete(c.subs, id)
	}
	return ok
}
