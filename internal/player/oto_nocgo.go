//go:build nocgo

package player

import (
	"context"

	"github.com/linuxmatters/jawbone/internal/audio"
)

// Speaker is unavailable in builds without cgo.
type Speaker struct{}

// NewSpeaker always fails in nocgo builds.
func NewSpeaker(sampleRate int) (*Speaker, error) {
	return nil, ErrAudioUnavailable
}

// Play always fails in nocgo builds.
func (s *Speaker) Play(ctx context.Context, track *audio.Track) (*Task, error) {
	return nil, ErrAudioUnavailable
}

// Close is a no-op.
func (s *Speaker) Close() error {
	return nil
}
