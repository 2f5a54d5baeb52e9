package player

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"time"

	"github.com/linuxmatters/jawbone/internal/audio"
)

// ErrAudioUnavailable is returned when the build or host has no audio output.
var ErrAudioUnavailable = errors.New("audio playback not available")

// Player starts playback of a track and returns immediately.
type Player interface {
	Play(ctx context.Context, track *audio.Track) (*Task, error)
	Close() error
}

// Silent is a Player that produces no sound but keeps the same timing,
// finishing after the track's duration.
type Silent struct{}

// Play waits out the track duration in the background.
func (Silent) Play(ctx context.Context, track *audio.Track) (*Task, error) {
	d := track.Duration()
	return Start(ctx, func(ctx context.Context) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}), nil
}

// Close is a no-op.
func (Silent) Close() error {
	return nil
}

// PCM16 converts normalised mono samples into signed 16-bit little-endian
// PCM, clipping anything outside [-1, 1].
func PCM16(samples []float64) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := math.Round(s * 32767)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v)))
	}
	return out
}
