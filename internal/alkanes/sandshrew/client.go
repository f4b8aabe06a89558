// Package sandshrew is a JSON-RPC client for the alkanes indexer, esplora and bitcoind methods a
// sandshrew-compatible endpoint multiplexes.
package sandshrew

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"go.uber.org/ratelimit"
)

const maxErrorBody = 512

// JSON-RPC error codes servers use for throttling.
var rateLimitCodes = map[int]struct{}{
	-32005: {},
	-32029: {},
	429:    {},
}

// RPCError is a JSON-RPC error object that is neither throttling nor an execution failure.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Client calls a single JSON-RPC endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	limiter    ratelimit.Limiter
	rpcMetrics RPCMetrics
	network    model.Network
	nextID     atomic.Uint64
}

// NewClient constructs a client. rps <= 0 disables client-side rate limiting.
func NewClient(url string, httpClient *http.Client, rps int, rpcMetrics RPCMetrics, network model.Network) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	return &Client{
		url:        url,
		httpClient: httpClient,
		limiter:    limiter,
		rpcMetrics: rpcMetrics,
		network:    network,
	}
}

// Network is the network the endpoint serves.
func (c *Client) Network() model.Network {
	return c.network
}

func (c *Client) call(ctx context.Context, operation, method string, params, out any) (err error) {
	started := time.Now()
	defer func() {
		c.rpcMetrics.Observe(operation, err, started)
	}()

	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(request{JSONRPC: "2.0", ID: c.nextID.Add(1), Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", operation, err)
	}

	c.limiter.Take()
	if err := ctx.Err(); err != nil {
		return classifyContext(operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(ctx, operation, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(ctx, operation, resp.StatusCode, err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &model.TransientNetworkError{Op: operation, StatusCode: resp.StatusCode, RateLimited: true, Err: errors.New(snippet(raw))}
	case resp.StatusCode >= http.StatusInternalServerError:
		return &model.TransientNetworkError{Op: operation, StatusCode: resp.StatusCode, Err: errors.New(snippet(raw))}
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s: http %d: %s", operation, resp.StatusCode, snippet(raw))
	}

	var envelope response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	if envelope.Error != nil {
		if isRateLimited(envelope.Error) {
			return &model.TransientNetworkError{Op: operation, RateLimited: true, Err: envelope.Error}
		}
		return fmt.Errorf("%s: %w", operation, envelope.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", operation, err)
	}
	return nil
}

// classifyTransport maps a failed round trip. Deadlines, whether from ctx or the http.Client
// timeout, are timeouts; everything else may be retried.
func classifyTransport(ctx context.Context, operation string, status int, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return classifyContext(operation, ctxErr)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &model.TimeoutError{Op: operation, Err: err}
	}
	return &model.TransientNetworkError{Op: operation, StatusCode: status, Err: err}
}

func classifyContext(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &model.TimeoutError{Op: operation, Err: err}
	}
	return fmt.Errorf("%s: %w", operation, err)
}

func isRateLimited(e *RPCError) bool {
	if _, ok := rateLimitCodes[e.Code]; ok {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests")
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}
