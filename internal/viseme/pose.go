// Package viseme turns audio loudness into a sequence of mouth poses.
package viseme

import (
	"fmt"
	"strings"
)

// Pose is one of the three mouth shapes.
type Pose int

const (
	Closed Pose = iota
	Open
	Tongue
)

// Poses lists every pose in display order.
var Poses = []Pose{Closed, Open, Tongue}

func (p Pose) String() string {
	switch p {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Tongue:
		return "tongue"
	default:
		return fmt.Sprintf("pose(%d)", int(p))
	}
}

// Valid reports whether p is one of the defined poses.
func (p Pose) Valid() bool {
	return p >= Closed && p <= Tongue
}

// ParsePose converts a pose name (case-insensitive) back into a Pose.
func ParsePose(s string) (Pose, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "closed":
		return Closed, nil
	case "open":
		return Open, nil
	case "tongue":
		return Tongue, nil
	}
	return 0, fmt.Errorf("unknown pose %q", s)
}

// MarshalText encodes the pose by name.
func (p Pose) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid pose %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a pose name.
func (p *Pose) UnmarshalText(text []byte) error {
	parsed, err := ParsePose(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Thresholds split loudness into poses. Values are on the 16-bit integer RMS
// scale: a full-scale square wave measures 32768.
type Thresholds struct {
	Low  float64 // Below this the mouth is closed
	High float64 // At or above this the tongue shows
}

// Classify maps a window's RMS loudness to a pose. Each window is classified
// independently, with no smoothing between neighbours.
func Classify(rms float64, th Thresholds) Pose {
	switch {
	case rms < th.Low:
		return Closed
	case rms < th.High:
		return Open
	default:
		return Tongue
	}
}
