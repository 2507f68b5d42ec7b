// Package daemon is a typed client for the Reachy Mini daemon REST API.
//
// All angles exchanged through this package are radians, matching the wire.
// Conversion to degrees belongs to the caller-facing layer.
package daemon

// Interpolation modes understood by the daemon's goto endpoint.
const (
	InterpolationMinJerk = "minjerk"
)

// MotorMode is the daemon's motor control mode. The client forwards any value;
// the daemon decides what is valid.
type MotorMode string

// Motor modes known to the daemon.
const (
	MotorEnabled             MotorMode = "enabled"
	MotorDisabled            MotorMode = "disabled"
	MotorGravityCompensation MotorMode = "gravity_compensation"
)

// MoveID is the opaque identifier the daemon assigns to an accepted move.
type MoveID string

// Pose is a target head position and orientation.
// Linear fields are meters, angular fields radians.
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// MoveRequest is the body of a goto move. Duration is in seconds.
type MoveRequest struct {
	HeadPose      *Pose       `json:"head_pose,omitempty"`
	Antennas      *[2]float64 `json:"antennas,omitempty"` // left, right
	BodyYaw       *float64    `json:"body_yaw,omitempty"`
	Duration      float64     `json:"duration"`
	Interpolation string      `json:"interpolation,omitempty"`
}

// MoveResult is returned for every move the daemon accepts.
type MoveResult struct {
	UUID MoveID `json:"uuid"`
}

// FullState is a point-in-time snapshot of the robot. Missing fields are nil.
type FullState struct {
	HeadPose         *Pose     `json:"head_pose"`
	AntennasPosition []float64 `json:"antennas_position"`
	BodyYaw          *float64  `json:"body_yaw"`
}

// MotorStatus reports the current motor control mode.
type MotorStatus struct {
	Mode MotorMode `json:"mode"`
}

// DaemonStatus is the daemon's self-reported health.
type DaemonStatus struct {
	State   string `json:"state"`
	Version string `json:"version,omitempty"`
}
