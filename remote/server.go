// Package remote exposes the settings store over a WebSocket.
//
// Clients send {"key": k, "value": v} to set a value, or {"action": name}
// to run a named action such as "reset". Every accepted change is echoed
// to all clients as {"key": k, "value": v}; failures are answered to the
// sender only, as {"error": "..."}. A new client first receives the full
// settings as {"settings": {...}}. The greeting and every color type change
// carry "visible", which maps each expression key to whether the current
// color type uses it.
//
// Expressions are compiled before they reach the store, so a client cannot
// store text that does not build a shader.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mhdeeb/geo-art/internal/logging"
	"github.com/mhdeeb/geo-art/material"
	"github.com/mhdeeb/geo-art/settings"
	"github.com/mhdeeb/geo-art/shader"
)

// Path is the WebSocket endpoint served by ListenAndServe.
const Path = "/ws"

// ErrUnknownAction is returned for an action no handler is registered for.
var ErrUnknownAction = errors.New("remote: unknown action")

// Message is one frame in either direction.
type Message struct {
	Key      string          `json:"key,omitempty"`
	Value    any             `json:"value,omitempty"`
	Action   string          `json:"action,omitempty"`
	Error    string          `json:"error,omitempty"`
	Settings map[string]any  `json:"settings,omitempty"`
	Visible  map[string]bool `json:"visible,omitempty"`
}

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan Message
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Server bridges WebSocket clients and a settings store.
type Server struct {
	store    *settings.Store
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	actions map[string]func() error
	sub     settings.Subscription
}

// NewServer returns a Server for store with the built-in actions reset,
// reset_advanced and toggle_animate.
func NewServer(store *settings.Store) *Server {
	s := &Server{
		store: store,
		upgrader: websocket.Upgrader{
			// Local control surface; any origin may connect.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		actions: make(map[string]func() error),
	}
	s.Handle("reset", func() error { store.Reset(); return nil })
	s.Handle("reset_advanced", func() error { store.ResetAdvanced(); return nil })
	s.Handle("toggle_animate", func() error { store.ToggleAnimate(); return nil })
	s.sub = store.Subscribe(s.broadcast)
	return s
}

// Handle registers fn as the action name, replacing any previous one.
func (s *Server) Handle(name string, fn func() error) {
	s.mu.Lock()
	s.actions[name] = fn
	s.mu.Unlock()
}

// Actions returns the registered action names, sorted.
func (s *Server) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.actions))
	for n := range s.actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ServeHTTP upgrades the request and serves the connection until it
// closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("remote: upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn, send: make(chan Message, sendBuffer)}
	snap := s.store.Snapshot()
	c.send <- Message{Settings: snap.Values(), Visible: visible(snap)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	n := len(s.clients)
	s.mu.Unlock()
	logging.Logger().Info("remote: client connected", "addr", r.RemoteAddr, "clients", n)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writeLoop(c)
	}()
	s.readLoop(c)

	s.drop(c)
	<-done
	conn.Close()
	logging.Logger().Info("remote: client disconnected", "addr", r.RemoteAddr)
}

func (s *Server) readLoop(c *client) {
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Logger().Debug("remote: read", "err", err)
			}
			return
		}
		if err := s.apply(msg); err != nil {
			s.reply(c, Message{Key: msg.Key, Action: msg.Action, Error: err.Error()})
		}
	}
}

func (s *Server) writeLoop(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteJSON(msg); err != nil {
			logging.Logger().Debug("remote: write", "err", err)
			// Unblock the reader so ServeHTTP can return.
			c.conn.Close()
			s.drop(c)
			for range c.send {
			}
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}

func (s *Server) apply(msg Message) error {
	switch {
	case msg.Action != "":
		s.mu.Lock()
		fn, ok := s.actions[msg.Action]
		s.mu.Unlock()
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
		}
		return fn()
	case msg.Key != "":
		if _, c, ok := settings.ExpressionOf(msg.Key); ok {
			if expr, isText := msg.Value.(string); isText {
				if err := shader.Check(c, expr); err != nil {
					return fmt.Errorf("remote: %s: %w", msg.Key, err)
				}
			}
		}
		return s.store.Set(msg.Key, msg.Value)
	default:
		return errors.New("remote: message needs key or action")
	}
}

// broadcast forwards a store change to every client. Clients whose
// buffer is full are dropped rather than stalling the store.
func (s *Server) broadcast(ch settings.Change) {
	msg := Message{Key: ch.Key, Value: ch.New}
	if ch.Key == settings.KeyColorType || ch.Key == settings.KeyPointColorType {
		msg.Visible = visible(s.store.Snapshot())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			logging.Logger().Warn("remote: dropping slow client")
			delete(s.clients, c)
			c.close()
		}
	}
}

// visible maps every expression key to whether its color type uses it.
func visible(snap settings.Settings) map[string]bool {
	out := make(map[string]bool, 2*len(shader.Channels))
	for _, kind := range []shader.Kind{shader.Point, shader.Line} {
		shown := material.ChannelsVisible(snap.ColorTypeOf(kind))
		for i, c := range shader.Channels {
			out[settings.ExpressionKey(kind, c)] = shown[i]
		}
	}
	return out
}

func (s *Server) reply(c *client, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close disconnects every client and stops following the store.
func (s *Server) Close() {
	s.sub.Unsubscribe()
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		c.close()
	}
}

// ListenAndServe serves the WebSocket endpoint on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle(Path, s)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logging.Logger().Info("remote: listening", "addr", addr, "path", Path)

	select {
	case err := <-errc:
		return fmt.Errorf("remote: %w", err)
	case <-ctx.Done():
	}
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("remote: shutdown: %w", err)
	}
	return nil
}
