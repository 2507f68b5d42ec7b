// Package blocks is the caller-facing layer behind the Reachy Mini coding
// blocks.
//
// Block arguments arrive in degrees and as menu strings; this package
// validates menus against closed sets, converts angles to radians, and calls
// the daemon client. Reporter blocks never fail: they log and fall back to a
// neutral value so a running block program keeps going.
//
// Interfaces are kept small so tests and alternative transports only need to
// implement what they use.
package blocks

import (
	"context"

	"github.com/teslashibe/reachy-blocks/pkg/daemon"
)

// MoveController starts and stops daemon moves.
type MoveController interface {
	WakeUp(ctx context.Context) (daemon.MoveResult, error)
	GotoSleep(ctx context.Context) (daemon.MoveResult, error)
	Goto(ctx context.Context, req daemon.MoveRequest) (daemon.MoveResult, error)
	StopCurrentMove(ctx context.Context) error
	RunningMoves(ctx context.Context) (int, error)
	CurrentMove() daemon.MoveID
}

// MotorController reads and switches the motor mode.
type MotorController interface {
	SetMotorMode(ctx context.Context, mode daemon.MotorMode) error
	MotorStatus(ctx context.Context) (daemon.MotorStatus, error)
}

// StateReader reads the robot's physical state.
type StateReader interface {
	FullState(ctx context.Context) (daemon.FullState, error)
}

// StatusChecker reports daemon health.
type StatusChecker interface {
	Ping(ctx context.Context) bool
	DaemonStatus(ctx context.Context) (daemon.DaemonStatus, error)
}

// RecordedMoves plays and lists pre-authored moves.
type RecordedMoves interface {
	PlayRecordedMove(ctx context.Context, dataset, move string) (daemon.MoveResult, error)
	ListRecordedMoves(ctx context.Context, dataset string) ([]string, error)
}

// API is everything the block layer needs from the daemon.
type API interface {
	MoveController
	MotorController
	StateReader
	StatusChecker
	RecordedMoves
}

// Ensure the daemon client satisfies API
var _ API = (*daemon.Client)(nil)
