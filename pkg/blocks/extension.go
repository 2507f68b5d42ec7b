package blocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/teslashibe/reachy-blocks/pkg/angle"
	"github.com/teslashibe/reachy-blocks/pkg/daemon"
)

// UnknownValue is reported for text reporters when the daemon cannot answer.
const UnknownValue = "unknown"

// ConnectionStatus is the extension's view of the daemon link.
type ConnectionStatus string

// Connection states.
const (
	Disconnected ConnectionStatus = "disconnected"
	Connected    ConnectionStatus = "connected"
	Errored      ConnectionStatus = "error"
)

// Snapshot is the robot state as block users see it: angles in degrees.
type Snapshot struct {
	HeadPitch    float64   `json:"head_pitch"`
	HeadYaw      float64   `json:"head_yaw"`
	HeadRoll     float64   `json:"head_roll"`
	LeftAntenna  float64   `json:"left_antenna"`
	RightAntenna float64   `json:"right_antenna"`
	BodyYaw      float64   `json:"body_yaw"`
	MotorMode    string    `json:"motor_mode"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Extension maps block invocations onto daemon calls.
type Extension struct {
	api    API
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	connection ConnectionStatus
	last       *Snapshot
}

// New creates an extension over api. A nil logger uses slog.Default.
func New(api API, logger *slog.Logger) *Extension {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extension{
		api:        api,
		logger:     logger.With("component", "blocks"),
		now:        time.Now,
		connection: Disconnected,
	}
}

// Connection returns the last observed daemon link state.
func (e *Extension) Connection() ConnectionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connection
}

// LastSnapshot returns the most recent successful Refresh result.
func (e *Extension) LastSnapshot() (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return Snapshot{}, false
	}
	return *e.last, true
}

// CurrentMove returns the uuid of the move most recently started, or "".
func (e *Extension) CurrentMove() string {
	return string(e.api.CurrentMove())
}

// WakeUp wakes the robot.
func (e *Extension) WakeUp(ctx context.Context) error {
	_, err := e.api.WakeUp(ctx)
	return e.command("wake up robot", err)
}

// GotoSleep puts the robot to sleep.
func (e *Extension) GotoSleep(ctx context.Context) error {
	_, err := e.api.GotoSleep(ctx)
	return e.command("put robot to sleep", err)
}

// MoveHeadDirection moves the head to a menu preset over duration seconds.
func (e *Extension) MoveHeadDirection(ctx context.Context, direction string, duration float64) error {
	dir, err := ParseHeadDirection(direction)
	if err != nil {
		return e.command("move head", err)
	}
	preset, _ := dir.Preset()
	return e.gotoHead(ctx, "move head", preset, duration)
}

// MoveHeadCustom moves the head to the given angles in degrees.
func (e *Extension) MoveHeadCustom(ctx context.Context, pitch, yaw, roll, duration float64) error {
	o := Orientation{
		Pitch: angle.DegToRad(pitch),
		Yaw:   angle.DegToRad(yaw),
		Roll:  angle.DegToRad(roll),
	}
	return e.gotoHead(ctx, "move head with custom angles", o, duration)
}

// ResetHead centers the head.
func (e *Extension) ResetHead(ctx context.Context) error {
	return e.gotoHead(ctx, "reset head", Orientation{}, ResetDuration)
}

// MoveAntennas moves each antenna to an angle in degrees.
func (e *Extension) MoveAntennas(ctx context.Context, left, right, duration float64) error {
	return e.gotoAntennas(ctx, "move antennas", angle.DegToRad(left), angle.DegToRad(right), duration)
}

// MoveAntennasBoth moves both antennas to the same angle in degrees.
func (e *Extension) MoveAntennasBoth(ctx context.Context, deg, duration float64) error {
	rad := angle.DegToRad(deg)
	return e.gotoAntennas(ctx, "move both antennas", rad, rad, duration)
}

// SetMotorMode switches the motors to a menu mode.
func (e *Extension) SetMotorMode(ctx context.Context, mode string) error {
	m, err := ParseMotorMode(mode)
	if err != nil {
		return e.command("set motor mode", err)
	}
	return e.command("set motor mode", e.api.SetMotorMode(ctx, m))
}

// PlayRecordedMove plays move from dataset.
func (e *Extension) PlayRecordedMove(ctx context.Context, dataset, move string) error {
	if strings.TrimSpace(dataset) == "" || strings.TrimSpace(move) == "" {
		return e.command("play recorded move", errors.New("blocks: dataset and move are required"))
	}
	_, err := e.api.PlayRecordedMove(ctx, dataset, move)
	return e.command("play recorded move", err)
}

// StopCurrentMove stops the move most recently started through this extension.
func (e *Extension) StopCurrentMove(ctx context.Context) error {
	err := e.api.StopCurrentMove(ctx)
	if errors.Is(err, daemon.ErrNothingToStop) {
		e.logger.Warn("no move to stop")
		return err
	}
	return e.command("stop move", err)
}

// Refresh reads full state and motor status and stores them as the last
// snapshot.
func (e *Extension) Refresh(ctx context.Context) (Snapshot, error) {
	state, err := e.api.FullState(ctx)
	if err != nil {
		e.setConnection(Errored)
		return Snapshot{}, fmt.Errorf("read full state: %w", err)
	}
	motors, err := e.api.MotorStatus(ctx)
	if err != nil {
		e.setConnection(Errored)
		return Snapshot{}, fmt.Errorf("read motor status: %w", err)
	}

	snap := toSnapshot(state, motors, e.now())
	e.mu.Lock()
	e.last = &snap
	e.connection = Connected
	e.mu.Unlock()
	return snap, nil
}

// HeadPitch reports head pitch in degrees, 0 on failure.
func (e *Extension) HeadPitch(ctx context.Context) float64 {
	return e.reading(ctx, "head pitch", func(s Snapshot) float64 { return s.HeadPitch })
}

// HeadYaw reports head yaw in degrees, 0 on failure.
func (e *Extension) HeadYaw(ctx context.Context) float64 {
	return e.reading(ctx, "head yaw", func(s Snapshot) float64 { return s.HeadYaw })
}

// HeadRoll reports head roll in degrees, 0 on failure.
func (e *Extension) HeadRoll(ctx context.Context) float64 {
	return e.reading(ctx, "head roll", func(s Snapshot) float64 { return s.HeadRoll })
}

// LeftAntenna reports the left antenna angle in degrees, 0 on failure.
func (e *Extension) LeftAntenna(ctx context.Context) float64 {
	return e.reading(ctx, "left antenna angle", func(s Snapshot) float64 { return s.LeftAntenna })
}

// RightAntenna reports the right antenna angle in degrees, 0 on failure.
func (e *Extension) RightAntenna(ctx context.Context) float64 {
	return e.reading(ctx, "right antenna angle", func(s Snapshot) float64 { return s.RightAntenna })
}

// BodyYaw reports body yaw in degrees, 0 on failure.
func (e *Extension) BodyYaw(ctx context.Context) float64 {
	return e.reading(ctx, "body yaw", func(s Snapshot) float64 { return s.BodyYaw })
}

// MotorMode reports the motor mode, "unknown" on failure.
func (e *Extension) MotorMode(ctx context.Context) string {
	snap, err := e.Refresh(ctx)
	if err != nil {
		e.logger.Error("failed to get motor mode", "error", err)
		return UnknownValue
	}
	return snap.MotorMode
}

// IsDaemonConnected reports whether the daemon answers.
func (e *Extension) IsDaemonConnected(ctx context.Context) bool {
	ok := e.api.Ping(ctx)
	if ok {
		e.setConnection(Connected)
	} else {
		e.setConnection(Disconnected)
	}
	return ok
}

// DaemonState reports the daemon's own state string, "unknown" on failure.
func (e *Extension) DaemonState(ctx context.Context) string {
	status, err := e.api.DaemonStatus(ctx)
	if err != nil {
		e.logger.Error("failed to get daemon status", "error", err)
		return UnknownValue
	}
	if status.State == "" {
		return UnknownValue
	}
	return status.State
}

// ListRecordedMoves reports the moves of dataset joined by ", ", "" on failure.
func (e *Extension) ListRecordedMoves(ctx context.Context, dataset string) string {
	moves, err := e.api.ListRecordedMoves(ctx, dataset)
	if err != nil {
		e.logger.Error("failed to list recorded moves", "dataset", dataset, "error", err)
		return ""
	}
	return strings.Join(moves, ", ")
}

// RunningMoves reports how many moves are running, 0 on failure.
func (e *Extension) RunningMoves(ctx context.Context) int {
	n, err := e.api.RunningMoves(ctx)
	if err != nil {
		e.logger.Error("failed to get running moves", "error", err)
		return 0
	}
	return n
}

func (e *Extension) gotoHead(ctx context.Context, op string, o Orientation, duration float64) error {
	_, err := e.api.Goto(ctx, daemon.MoveRequest{
		HeadPose:      &daemon.Pose{Pitch: o.Pitch, Yaw: o.Yaw, Roll: o.Roll},
		Duration:      ClampDuration(duration),
		Interpolation: daemon.InterpolationMinJerk,
	})
	return e.command(op, err)
}

func (e *Extension) gotoAntennas(ctx context.Context, op string, left, right, duration float64) error {
	_, err := e.api.Goto(ctx, daemon.MoveRequest{
		Antennas:      &[2]float64{left, right},
		Duration:      ClampDuration(duration),
		Interpolation: daemon.InterpolationMinJerk,
	})
	return e.command(op, err)
}

// command logs a failed command block and hands the error back.
func (e *Extension) command(op string, err error) error {
	if err != nil {
		e.logger.Error("failed to "+op, "error", err)
	}
	return err
}

func (e *Extension) reading(ctx context.Context, name string, pick func(Snapshot) float64) float64 {
	snap, err := e.Refresh(ctx)
	if err != nil {
		e.logger.Error("failed to get "+name, "error", err)
		return 0
	}
	return pick(snap)
}

func (e *Extension) setConnection(s ConnectionStatus) {
	e.mu.Lock()
	e.connection = s
	e.mu.Unlock()
}

// toSnapshot converts a radian state to degrees. Missing fields read as 0.
func toSnapshot(state daemon.FullState, motors daemon.MotorStatus, at time.Time) Snapshot {
	snap := Snapshot{
		MotorMode: string(motors.Mode),
		UpdatedAt: at,
	}
	if snap.MotorMode == "" {
		snap.MotorMode = UnknownValue
	}
	if p := state.HeadPose; p != nil {
		snap.HeadPitch = angle.RadToDeg(p.Pitch)
		snap.HeadYaw = angle.RadToDeg(p.Yaw)
		snap.HeadRoll = angle.RadToDeg(p.Roll)
	}
	if len(state.AntennasPosition) > 0 {
		snap.LeftAntenna = angle.RadToDeg(state.AntennasPosition[0])
	}
	if len(state.AntennasPosition) > 1 {
		snap.RightAntenna = angle.RadToDeg(state.AntennasPosition[1])
	}
	if state.BodyYaw != nil {
		snap.BodyYaw = angle.RadToDeg(*state.BodyYaw)
	}
	return snap
}
