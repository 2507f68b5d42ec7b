package blocks

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/teslashibe/reachy-blocks/pkg/daemon"
)

// MinDuration is the shortest move duration sent to the daemon, in seconds.
const MinDuration = 0.1

// ResetDuration is how long ResetHead takes to center the head.
const ResetDuration = 2.0

var (
	// ErrInvalidDirection is returned for head directions outside the menu.
	ErrInvalidDirection = errors.New("blocks: invalid head direction")

	// ErrInvalidMotorMode is returned for motor modes outside the menu.
	ErrInvalidMotorMode = errors.New("blocks: invalid motor mode")
)

// HeadDirection is one entry of the head direction menu.
type HeadDirection string

// Head direction menu values.
const (
	Center    HeadDirection = "CENTER"
	Up        HeadDirection = "UP"
	Down      HeadDirection = "DOWN"
	Left      HeadDirection = "LEFT"
	Right     HeadDirection = "RIGHT"
	UpLeft    HeadDirection = "UP_LEFT"
	UpRight   HeadDirection = "UP_RIGHT"
	DownLeft  HeadDirection = "DOWN_LEFT"
	DownRight HeadDirection = "DOWN_RIGHT"
)

// Orientation is a head orientation in radians.
type Orientation struct {
	Pitch float64
	Yaw   float64
	Roll  float64
}

// headPresets holds the target orientation for each direction, in radians.
var headPresets = map[HeadDirection]Orientation{
	Center:    {},
	Up:        {Pitch: 0.3},
	Down:      {Pitch: -0.3},
	Left:      {Yaw: 0.5},
	Right:     {Yaw: -0.5},
	UpLeft:    {Pitch: 0.3, Yaw: 0.5},
	UpRight:   {Pitch: 0.3, Yaw: -0.5},
	DownLeft:  {Pitch: -0.3, Yaw: 0.5},
	DownRight: {Pitch: -0.3, Yaw: -0.5},
}

// HeadDirections lists the menu in display order.
func HeadDirections() []HeadDirection {
	return []HeadDirection{Center, Up, Down, Left, Right, UpLeft, UpRight, DownLeft, DownRight}
}

// Preset returns the orientation for d. ok is false for unknown directions.
func (d HeadDirection) Preset() (o Orientation, ok bool) {
	o, ok = headPresets[d]
	return o, ok
}

// ParseHeadDirection accepts menu values case-insensitively, with spaces,
// dashes, underscores or nothing between words ("up left", "upLeft", "UP_LEFT").
func ParseHeadDirection(s string) (HeadDirection, error) {
	key := compactKey(s)
	for _, d := range HeadDirections() {
		if compactKey(string(d)) == key {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// MotorModes lists the motor mode menu in display order.
func MotorModes() []daemon.MotorMode {
	return []daemon.MotorMode{daemon.MotorEnabled, daemon.MotorDisabled, daemon.MotorGravityCompensation}
}

// ParseMotorMode restricts s to the motor mode menu.
func ParseMotorMode(s string) (daemon.MotorMode, error) {
	key := compactKey(s)
	for _, m := range MotorModes() {
		if compactKey(string(m)) == key {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMotorMode, s)
}

// ClampDuration floors d at MinDuration. NaN becomes MinDuration.
func ClampDuration(d float64) float64 {
	if math.IsNaN(d) || d < MinDuration {
		return MinDuration
	}
	return d
}

func compactKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-':
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(s)))
}
