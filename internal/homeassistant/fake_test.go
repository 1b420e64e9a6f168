package homeassistant

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"shoplist/internal/models"

	"github.com/gorilla/websocket"
)

const (
	testToken  = "secret-token"
	testEntity = "todo.shopping_list"
)

// fakeHA is a minimal Home Assistant: WebSocket API plus static files.
type fakeHA struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	items    []models.TodoItem
	files    map[string]string
	services []serviceCall
}

type serviceCall struct {
	Domain  string
	Service string
	Data    map[string]any
}

func newFakeHA(t *testing.T) *fakeHA {
	t.Helper()
	f := &fakeHA{t: t, files: make(map[string]string)}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/websocket", f.serveWS)
	mux.HandleFunc("/local/", f.serveFile)
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeHA) URL() string {
	return f.server.URL
}

func (f *fakeHA) calls() []serviceCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]serviceCall(nil), f.services...)
}

func (f *fakeHA) serveFile(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	f.mu.Lock()
	body, ok := f.files[r.URL.Path]
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(body))
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (f *fakeHA) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"type": "auth_required", "ha_version": "2024.5.0"}); err != nil {
		return
	}
	var auth map[string]any
	if err := conn.ReadJSON(&auth); err != nil {
		return
	}
	if auth["access_token"] != testToken {
		_ = conn.WriteJSON(map[string]any{"type": "auth_invalid", "message": "Invalid access token"})
		return
	}
	if err := conn.WriteJSON(map[string]any{"type": "auth_ok"}); err != nil {
		return
	}

	subscription := 0
	for {
		var req map[string]any
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		id := int(req["id"].(float64))

		ok := func(result any) error {
			return conn.WriteJSON(map[string]any{"id": id, "type": "result", "success": true, "result": result})
		}
		fail := func(code, message string) error {
			return conn.WriteJSON(map[string]any{
				"id": id, "type": "result", "success": false,
				"error": map[string]string{"code": code, "message": message},
			})
		}

		var err error
		switch req["type"] {
		case "get_states":
			err = ok([]map[string]any{
				{"entity_id": "light.kitchen", "state": "on", "last_updated": "2024-05-01T10:00:00+00:00"},
				{"entity_id": testEntity, "state": f.count(), "last_updated": "2024-05-01T12:00:00.123456+00:00"},
			})

		case "todo/item/list":
			if req["entity_id"] != testEntity {
				err = fail("not_found", "Entity not found")
				break
			}
			f.mu.Lock()
			items := append([]models.TodoItem{}, f.items...)
			f.mu.Unlock()
			err = ok(map[string]any{"items": items})

		case "call_service":
			call := serviceCall{
				Domain:  req["domain"].(string),
				Service: req["service"].(string),
				Data:    req["service_data"].(map[string]any),
			}
			f.mu.Lock()
			f.services = append(f.services, call)
			f.mu.Unlock()

			if call.Domain == "shell_command" && call.Service == "broken" {
				err = fail("service_not_found", "Service not found")
				break
			}
			if call.Domain == "todo" {
				f.applyTodo(call)
			}
			if err = ok(nil); err != nil {
				break
			}
			if call.Domain == "todo" && subscription != 0 {
				err = conn.WriteJSON(map[string]any{
					"id":   subscription,
					"type": "event",
					"event": map[string]any{
						"event_type": "state_changed",
						"data": map[string]any{
							"entity_id": testEntity,
							"new_state": map[string]any{
								"entity_id":    testEntity,
								"state":        f.count(),
								"last_updated": "2024-05-01T12:30:00+00:00",
							},
						},
					},
				})
			}

		case "subscribe_events":
			subscription = id
			err = ok(nil)

		case "unsubscribe_events":
			subscription = 0
			err = ok(nil)

		default:
			err = fail("unknown_command", "Unknown command.")
		}
		if err != nil {
			return
		}
	}
}

func (f *fakeHA) applyTodo(call serviceCall) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, _ := call.Data["item"].(string)
	switch call.Service {
	case "add_item":
		f.items = append(f.items, models.TodoItem{
			UID:     strings.ToLower(strings.ReplaceAll(item, " ", "-")),
			Summary: item,
			Status:  models.StatusNeedsAction,
		})
	case "remove_item":
		kept := f.items[:0]
		for _, it := range f.items {
			if it.Summary != item {
				kept = append(kept, it)
			}
		}
		f.items = kept
	}
}

func (f *fakeHA) count() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, it := range f.items {
		if it.Status == models.StatusNeedsAction {
			n++
		}
	}
	return strconv.Itoa(n)
}
