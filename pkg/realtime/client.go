package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/voxstream-ai/realtime-go/pkg/realtime/events"
)

// Recovery describes one successful reconnection.
type Recovery struct {
	// Attempts is how many failed attempts preceded the recovery.
	Attempts int
	// SessionID identifies the recovered connection.
	SessionID string
}

// Client maintains a single logical realtime connection. It transparently
// recovers from transport failures with bounded exponential backoff and
// offers send/receive primitives that retry at most once around a
// reconnect. A Client is safe for concurrent use; receive calls are
// expected to come from a single logical reader.
//
// The documented usage is scoped acquisition:
//
//	if err := client.Connect(ctx); err != nil { ... }
//	defer client.Close()
type Client struct {
	cfg     Config
	logger  *zap.Logger
	machine *machine

	mu        sync.Mutex
	dialer    *websocket.Dialer
	tr        *transport
	sessionID string

	recoveries chan Recovery
}

// NewClient builds a client from the given configuration. A nil logger is
// replaced with a no-op one.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        normalizeConfig(cfg),
		logger:     logger,
		machine:    newMachine(),
		recoveries: make(chan Recovery, 8),
	}
}

// Connect establishes the connection, creating the underlying dialer if
// absent and resetting the retry budget. It returns once connected or once
// the budget is exhausted, in which case the error is a *ConnectionError
// carrying any handshake status and headers.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.dialer == nil {
		c.dialer = &websocket.Dialer{}
	}
	c.mu.Unlock()

	c.machine.reset(StateConnecting)
	return c.doConnect(ctx)
}

// Reconnect manually re-establishes the connection. At most one reconnect
// sequence runs at a time; overlapping calls return ErrReconnectInProgress
// without touching the transport. The old transport is closed but the
// dialer is kept.
func (c *Client) Reconnect(ctx context.Context) error {
	ok, state := c.machine.beginReconnect()
	if !ok {
		if state == StateClosed {
			return &ConnectionError{Err: errClientClosed}
		}
		c.logger.Debug("reconnect already in flight, skipping")
		return ErrReconnectInProgress
	}
	defer c.machine.endReconnect()

	c.logger.Info("reconnecting realtime session")
	c.mu.Lock()
	if c.tr != nil {
		_ = c.tr.close()
	}
	c.mu.Unlock()

	if err := c.doConnect(ctx); err != nil {
		return err
	}
	if c.Closed() {
		return &ConnectionError{Err: errNoSession}
	}
	return nil
}

// Close disables every automatic recovery path, closes the transport and
// releases the dialer. It is idempotent and safe to call concurrently with
// in-flight operations; those fail naturally on their next I/O step.
func (c *Client) Close() {
	c.mu.Lock()
	c.machine.set(StateClosed)
	tr := c.tr
	c.tr = nil
	c.dialer = nil
	c.mu.Unlock()

	if tr != nil {
		if err := tr.close(); err != nil {
			c.logger.Warn("closing realtime transport", zap.Error(err))
		}
	}
}

// Closed reports whether no transport exists or the current one is closed.
func (c *Client) Closed() bool {
	tr := c.transport()
	return tr == nil || tr.isClosed()
}

// State returns the supervisor's current connection state.
func (c *Client) State() State {
	return c.machine.State()
}

// SessionID returns the correlation identifier of the current connection.
// It changes on every successful attempt and carries no protocol meaning.
func (c *Client) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Recoveries exposes reconnect notifications. The channel is buffered;
// notifications are dropped, not blocked on, when nobody is draining it.
func (c *Client) Recoveries() <-chan Recovery {
	return c.recoveries
}

// Send serializes a typed event and writes it as one text frame. On a
// closed connection it attempts one reconnect first; on a write failure it
// reconnects once and resends once, otherwise the original error
// propagates.
func (c *Client) Send(ctx context.Context, ev *events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.ensureOpen(ctx, "send"); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return c.writeWithRecovery(ctx, func(tr *transport) error {
		return tr.writeText(data)
	})
}

// SendJSON writes a generic structured value through the transport's JSON
// frame encoder. Same recovery contract as Send.
func (c *Client) SendJSON(ctx context.Context, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.ensureOpen(ctx, "send_json"); err != nil {
		return err
	}
	return c.writeWithRecovery(ctx, func(tr *transport) error {
		return tr.writeJSON(v)
	})
}

// Recv blocks for the next inbound frame and decodes text frames into
// typed events. A nil event with a nil error is the end-of-stream signal
// for this call: the connection was closed and could not be recovered, a
// close/error frame triggered a reconnect, or a non-text frame arrived.
// Decode failures return a *DecodeError and do not touch the connection.
func (c *Client) Recv(ctx context.Context) (*events.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Closed() {
		c.logger.Warn("transport closed, reconnecting before recv")
		if err := c.Reconnect(ctx); err != nil || c.Closed() {
			return nil, nil
		}
	}
	tr := c.transport()
	if tr == nil {
		return nil, nil
	}

	msgType, data, err := tr.read()
	if err != nil {
		c.logger.Warn("frame read failed, reconnecting", zap.Error(err))
		if rerr := c.Reconnect(ctx); rerr != nil && !errors.Is(rerr, ErrReconnectInProgress) {
			c.logger.Warn("reconnect after read failure failed", zap.Error(rerr))
		}
		return nil, nil
	}

	switch msgType {
	case websocket.TextMessage:
		ev, derr := events.Parse(data)
		if derr != nil {
			return nil, &DecodeError{Err: derr}
		}
		return ev, nil
	default:
		return nil, nil
	}
}

// Messages yields inbound events until the first Recv that produces no
// event, including a recv-time reconnect that actually recovered the
// connection. Callers needing a stream that survives reconnects must wrap
// the iteration in their own loop. A decode failure is yielded once, then
// iteration stops.
func (c *Client) Messages(ctx context.Context) iter.Seq2[*events.Event, error] {
	return func(yield func(*events.Event, error) bool) {
		for {
			ev, err := c.Recv(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if ev == nil {
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// ensureOpen runs the closed-precondition step shared by the send paths:
// one reconnect attempt, then a hard failure if still closed.
func (c *Client) ensureOpen(ctx context.Context, op string) error {
	if !c.Closed() {
		return nil
	}
	c.logger.Warn("transport closed, reconnecting", zap.String("op", op))
	if err := c.Reconnect(ctx); err != nil {
		c.logger.Warn("reconnect failed", zap.String("op", op), zap.Error(err))
	}
	if c.Closed() {
		return &ConnectionError{Err: errClientClosed}
	}
	return nil
}

// writeWithRecovery performs one write, and on failure one reconnect plus
// one retry of the same write. The original write error propagates when the
// reconnect fails.
func (c *Client) writeWithRecovery(ctx context.Context, write func(*transport) error) error {
	tr := c.transport()
	if tr == nil {
		return &ConnectionError{Err: errNoSession}
	}
	err := write(tr)
	if err == nil {
		return nil
	}
	c.logger.Warn("frame write failed, reconnecting", zap.Error(err))
	if rerr := c.Reconnect(ctx); rerr != nil {
		return err
	}
	tr = c.transport()
	if tr == nil {
		return err
	}
	return write(tr)
}

// doConnect runs the attempt sequence: dial, and on failure consult the
// retry decision, wait out the backoff and try again. Individual attempt
// failures are absorbed into the loop; only budget exhaustion surfaces.
func (c *Client) doConnect(ctx context.Context) error {
	for {
		status, header, err := c.attempt(ctx)
		if err == nil {
			return nil
		}
		_, attempts := c.machine.snapshot()
		c.logger.Warn("realtime connect attempt failed",
			zap.Error(err),
			zap.Int("status", status),
			zap.Int("failed_attempts", attempts),
		)

		retry, werr := c.nextRetry(ctx)
		if werr != nil {
			return werr
		}
		if !retry {
			c.machine.exhausted()
			c.teardownSession()
			return &ConnectionError{Status: status, Header: header, Err: err}
		}
	}
}

// attempt performs exactly one connection attempt with a fresh session
// identity and merged headers. On success the transport is swapped in and
// a recovery is published when failed attempts preceded it.
func (c *Client) attempt(ctx context.Context) (int, http.Header, error) {
	c.mu.Lock()
	dialer := c.dialer
	c.mu.Unlock()
	if dialer == nil {
		return 0, nil, errNoSession
	}

	sessionID := uuid.NewString()
	conn, resp, err := dialer.DialContext(ctx, c.endpoint(), c.dialHeaders())
	if err != nil {
		status := 0
		var header http.Header
		if resp != nil {
			status = resp.StatusCode
			header = resp.Header
		}
		return status, header, err
	}

	c.mu.Lock()
	if c.machine.State() == StateClosed {
		c.mu.Unlock()
		_ = conn.Close()
		return 0, nil, errClientClosed
	}
	if c.tr != nil {
		_ = c.tr.close()
	}
	c.tr = newTransport(conn)
	c.sessionID = sessionID
	attempts := c.machine.connected()
	c.mu.Unlock()

	c.logger.Info("realtime connected",
		zap.String("session_id", sessionID),
		zap.Int("recovered_after", attempts),
	)
	if attempts > 0 {
		c.notifyRecovered(attempts, sessionID)
	}
	return 0, nil, nil
}

// nextRetry evaluates the retry decision and, when a retry is permitted,
// waits out the backoff delay. The returned error is only ever the
// context's: cancellation during the wait settles the state and hands
// control back to the caller.
func (c *Client) nextRetry(ctx context.Context) (bool, error) {
	budget := c.cfg.MaxRetries
	state, retries := c.machine.snapshot()
	if budget == 0 || (budget > 0 && retries >= budget) {
		c.logger.Warn("retry budget exhausted", zap.Int("max_retries", budget))
		return false, nil
	}
	if state == StateClosed {
		c.logger.Info("client closed, not retrying")
		return false, nil
	}

	attempt := c.machine.retrying()
	delay := Delay(attempt, c.cfg.InitialRetryDelay, c.cfg.MaxRetryDelay, c.cfg.RetryJitter)
	c.logger.Info("retrying realtime connection",
		zap.Int("attempt", attempt),
		zap.Duration("delay", delay),
	)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		c.machine.endReconnect()
		return false, ctx.Err()
	case <-timer.C:
		return true, nil
	}
}

func (c *Client) teardownSession() {
	c.mu.Lock()
	c.dialer = nil
	c.mu.Unlock()
}

func (c *Client) transport() *transport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tr
}

func (c *Client) endpoint() string {
	if len(c.cfg.Params) == 0 {
		return c.cfg.URL
	}
	sep := "?"
	if strings.Contains(c.cfg.URL, "?") {
		sep = "&"
	}
	return c.cfg.URL + sep + c.cfg.Params.Encode()
}

func (c *Client) dialHeaders() http.Header {
	header := http.Header{}
	for key, values := range c.cfg.Headers {
		for _, value := range values {
			header.Add(key, value)
		}
	}
	if header.Get("User-Agent") == "" {
		header.Set("User-Agent", UserAgent())
	}
	return header
}

func (c *Client) notifyRecovered(attempts int, sessionID string) {
	if c.cfg.OnReconnect != nil {
		c.cfg.OnReconnect(attempts)
	}
	select {
	case c.recoveries <- Recovery{Attempts: attempts, SessionID: sessionID}:
	default:
	}
}
