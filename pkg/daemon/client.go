package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// maxErrorBody bounds how much of a failed response is copied into Error.Message.
const maxErrorBody = 512

// Client talks to one daemon. It owns the last accepted move and the
// recorded-move listings it has fetched; nothing is shared between clients.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu          sync.Mutex
	currentMove MoveID
	moveLists   map[string][]string
}

// NewClient creates a daemon client.
func NewClient(opts ...Option) *Client {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:   baseURL,
		http:      hc,
		logger:    logger.With("component", "daemon.client"),
		moveLists: make(map[string][]string),
	}
}

// BaseURL returns the REST root this client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CurrentMove returns the uuid of the last move this client started, or "".
func (c *Client) CurrentMove() MoveID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentMove
}

// WakeUp plays the daemon's wake-up move.
func (c *Client) WakeUp(ctx context.Context) (MoveResult, error) {
	return c.startMove(ctx, "wake_up", pathWakeUp, nil)
}

// GotoSleep plays the daemon's go-to-sleep move.
func (c *Client) GotoSleep(ctx context.Context) (MoveResult, error) {
	return c.startMove(ctx, "goto_sleep", pathGotoSleep, nil)
}

// Goto sends req as-is. Angles must already be radians.
func (c *Client) Goto(ctx context.Context, req MoveRequest) (MoveResult, error) {
	return c.startMove(ctx, "goto", pathGoto, req)
}

// PlayRecordedMove plays move from dataset. Dataset separators are kept as
// path separators.
func (c *Client) PlayRecordedMove(ctx context.Context, dataset, move string) (MoveResult, error) {
	return c.startMove(ctx, "play_recorded_move", playRecordedPath(dataset, move), nil)
}

// SetMotorMode switches the motor control mode. The mode is not validated.
func (c *Client) SetMotorMode(ctx context.Context, mode MotorMode) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, "set_motor_mode", http.MethodPost, setMotorModePath(mode), nil, &resp); err != nil {
		return err
	}
	c.logger.Debug("motor mode changed", "mode", mode, "status", resp.Status)
	return nil
}

// MotorStatus returns the current motor mode.
func (c *Client) MotorStatus(ctx context.Context) (MotorStatus, error) {
	var status MotorStatus
	err := c.do(ctx, "motor_status", http.MethodGet, pathMotorStatus, nil, &status)
	return status, err
}

// FullState reads the robot's current state. It is never cached.
func (c *Client) FullState(ctx context.Context) (FullState, error) {
	var state FullState
	err := c.do(ctx, "full_state", http.MethodGet, pathFullState, nil, &state)
	return state, err
}

// DaemonStatus returns the daemon's self-reported status.
func (c *Client) DaemonStatus(ctx context.Context) (DaemonStatus, error) {
	var status DaemonStatus
	err := c.do(ctx, "daemon_status", http.MethodGet, pathDaemonStatus, nil, &status)
	return status, err
}

// Ping reports whether the daemon answers its status endpoint with a 2xx.
// It never returns an error.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathDaemonStatus, nil)
	if err != nil {
		c.logger.Debug("ping: build request", "error", err)
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("ping: daemon unreachable", "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// ListRecordedMoves returns the move names in dataset, in daemon order.
// The first successful listing per dataset string is kept for the client's
// lifetime and never refreshed.
func (c *Client) ListRecordedMoves(ctx context.Context, dataset string) ([]string, error) {
	c.mu.Lock()
	cached, ok := c.moveLists[dataset]
	c.mu.Unlock()
	if ok {
		return append([]string(nil), cached...), nil
	}

	var moves []string
	if err := c.do(ctx, "list_recorded_moves", http.MethodGet, listRecordedPath(dataset), nil, &moves); err != nil {
		return nil, err
	}
	if moves == nil {
		moves = []string{}
	}

	c.mu.Lock()
	c.moveLists[dataset] = moves
	c.mu.Unlock()

	return append([]string(nil), moves...), nil
}

// StopCurrentMove stops the last move this client started. With no tracked
// move it fails with ErrNothingToStop and sends nothing.
func (c *Client) StopCurrentMove(ctx context.Context) error {
	id := c.CurrentMove()
	if id == "" {
		return &Error{Op: "stop_move", Kind: ErrNothingToStop}
	}

	if err := c.StopMove(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	if c.currentMove == id {
		c.currentMove = ""
	}
	c.mu.Unlock()
	return nil
}

// StopMove asks the daemon to stop the move with the given uuid.
func (c *Client) StopMove(ctx context.Context, id MoveID) error {
	var resp struct {
		Message string `json:"message"`
	}
	body := map[string]MoveID{"uuid": id}
	if err := c.do(ctx, "stop_move", http.MethodPost, pathStopMove, body, &resp); err != nil {
		return err
	}
	c.logger.Debug("move stopped", "uuid", id, "message", resp.Message)
	return nil
}

// RunningMoves returns how many moves the daemon is currently executing.
func (c *Client) RunningMoves(ctx context.Context) (int, error) {
	var running []json.RawMessage
	if err := c.do(ctx, "running_moves", http.MethodGet, pathRunningMoves, nil, &running); err != nil {
		return 0, err
	}
	return len(running), nil
}

// startMove posts to a move endpoint and tracks the returned uuid.
func (c *Client) startMove(ctx context.Context, op, path string, payload any) (MoveResult, error) {
	var result MoveResult
	if err := c.do(ctx, op, http.MethodPost, path, payload, &result); err != nil {
		return MoveResult{}, err
	}

	c.mu.Lock()
	c.currentMove = result.UUID
	c.mu.Unlock()

	c.logger.Debug("move started", "op", op, "uuid", result.UUID)
	return result, nil
}

// do performs one request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &Error{Op: op, Kind: ErrMalformed, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Op: op, Kind: ErrUnavailable, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("daemon request", "op", op, "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: ErrUnavailable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Op:         op,
			Kind:       ErrStatus,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Kind: ErrMalformed, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
