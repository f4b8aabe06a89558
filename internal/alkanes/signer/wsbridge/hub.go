// Package wsbridge relays wallet calls to a companion browser page over a websocket. The page
// holds the injected wallet providers and answers {id, provider, method, params} requests with
// {id, result, error}.
package wsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/signer/extension"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	BridgePath  = "/bridge"
	MetricsPath = "/metrics"

	writeTimeout = 10 * time.Second
)

var (
	// ErrNotConnected is returned when no bridge page is attached.
	ErrNotConnected = errors.New("no wallet bridge page connected")
	// ErrDisconnected is returned for calls pending when the page went away.
	ErrDisconnected = errors.New("wallet bridge page disconnected")
)

type request struct {
	ID       uint64 `json:"id"`
	Provider string `json:"provider"`
	Method   string `json:"method"`
	Params   []any  `json:"params"`
}

type response struct {
	ID     uint64                 `json:"id"`
	Result json.RawMessage        `json:"result"`
	Error  *extension.RemoteError `json:"error"`
}

type outcome struct {
	resp response
	err  error
}

// pendingCall is a request awaiting its response on the page it was sent to.
type pendingCall struct {
	conn *websocket.Conn
	ch   chan outcome
}

// Hub serves the bridge endpoint and implements extension.Bridge. One page is attached at a time;
// a new page replaces the previous one.
type Hub struct {
	logger   *zap.Logger
	metrics  BridgeMetrics
	origins  []string
	upgrader websocket.Upgrader

	nextID atomic.Uint64

	mu       sync.Mutex
	conn     *websocket.Conn
	attached chan struct{}
	pending  map[uint64]pendingCall

	writeMu sync.Mutex
}

// NewHub accepts pages from origins; no origins means any origin.
func NewHub(logger *zap.Logger, metrics BridgeMetrics, origins []string) *Hub {
	h := &Hub{
		logger:   logger,
		metrics:  metrics,
		origins:  origins,
		attached: make(chan struct{}),
		pending:  make(map[uint64]pendingCall),
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

// Handler serves the bridge and the prometheus endpoint behind CORS.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(BridgePath, h)
	mux.Handle(MetricsPath, promhttp.Handler())
	if len(h.origins) == 0 {
		return cors.Default().Handler(mux)
	}
	return cors.New(cors.Options{AllowedOrigins: h.origins}).Handler(mux)
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, o := range h.origins {
		if o == origin || o == "*" {
			return true
		}
	}
	return false
}

// ServeHTTP attaches a bridge page.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("bridge upgrade failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	previous := h.conn
	h.conn = conn
	select {
	case <-h.attached:
	default:
		close(h.attached)
	}
	if previous != nil {
		h.failPending(previous)
	}
	h.mu.Unlock()
	if previous != nil {
		_ = previous.Close()
	}
	h.metrics.SetConnected(true)
	h.logger.Info("wallet bridge page attached", zap.String("remote", r.RemoteAddr))

	go h.readLoop(conn)
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
		h.detach(conn)
	}()
	for {
		var resp response
		if err := conn.ReadJSON(&resp); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("wallet bridge read failed", zap.Error(err))
			}
			return
		}
		h.mu.Lock()
		call, ok := h.pending[resp.ID]
		if ok && call.conn == conn {
			delete(h.pending, resp.ID)
		}
		h.mu.Unlock()
		if !ok || call.conn != conn {
			h.logger.Warn("wallet bridge response without caller", zap.Uint64("id", resp.ID))
			continue
		}
		call.ch <- outcome{resp: resp}
	}
}

// detach fails the calls sent to conn and, if conn is still the attached page, marks the hub
// as waiting for a new one.
func (h *Hub) detach(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failPending(conn)
	if h.conn != conn {
		return
	}
	h.conn = nil
	h.attached = make(chan struct{})
	h.metrics.SetConnected(false)
	h.logger.Info("wallet bridge page detached")
}

// failPending must be called with h.mu held.
func (h *Hub) failPending(conn *websocket.Conn) {
	for id, call := range h.pending {
		if call.conn != conn {
			continue
		}
		call.ch <- outcome{err: ErrDisconnected}
		delete(h.pending, id)
	}
}

// WaitAttached blocks until a page is attached.
func (h *Hub) WaitAttached(ctx context.Context) error {
	h.mu.Lock()
	attached := h.attached
	h.mu.Unlock()
	select {
	case <-attached:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call invokes provider[method](params...) in the page and decodes the result.
func (h *Hub) Call(ctx context.Context, provider, method string, params []any, result any) (err error) {
	defer func(started time.Time) {
		h.metrics.Observe(provider, method, err, started)
	}(time.Now())

	id := h.nextID.Add(1)
	ch := make(chan outcome, 1)

	h.mu.Lock()
	conn := h.conn
	if conn == nil {
		h.mu.Unlock()
		return ErrNotConnected
	}
	h.pending[id] = pendingCall{conn: conn, ch: ch}
	h.mu.Unlock()

	if err := h.write(conn, request{ID: id, Provider: provider, Method: method, Params: params}); err != nil {
		h.forget(id)
		return fmt.Errorf("send %s.%s: %w", provider, method, err)
	}

	select {
	case <-ctx.Done():
		h.forget(id)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &model.TimeoutError{Op: provider + "." + method, Err: ctx.Err()}
		}
		return ctx.Err()
	case out := <-ch:
		if out.err != nil {
			return out.err
		}
		if out.resp.Error != nil {
			return out.resp.Error
		}
		if result == nil || len(out.resp.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(out.resp.Result, result); err != nil {
			return fmt.Errorf("decode %s.%s result: %w", provider, method, err)
		}
		return nil
	}
}

func (h *Hub) write(conn *websocket.Conn, req request) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(req)
}

func (h *Hub) forget(id uint64) {
	h.mu.Lock()
	delete(h.pending, id)
	h.mu.Unlock()
}
