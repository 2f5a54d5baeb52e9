//go:build !nocgo

package player

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
	"github.com/linuxmatters/jawbone/internal/audio"
)

// pollInterval is how often a playing task checks whether oto has drained.
const pollInterval = 20 * time.Millisecond

// oto allows a single context per process
var (
	otoOnce    sync.Once
	otoContext *oto.Context
	otoRate    int
	otoErr     error
)

// Speaker plays tracks through the default audio device using oto.
type Speaker struct {
	ctx *oto.Context
}

// NewSpeaker opens the audio device at sampleRate. The device can only be
// opened at one rate per process.
func NewSpeaker(sampleRate int) (*Speaker, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoErr = fmt.Errorf("failed to create oto context: %w", err)
			return
		}
		<-ready
		otoContext = ctx
		otoRate = sampleRate
	})

	if otoErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrAudioUnavailable, otoErr)
	}
	if otoRate != sampleRate {
		return nil, fmt.Errorf("audio device already open at %d Hz, cannot play %d Hz", otoRate, sampleRate)
	}
	return &Speaker{ctx: otoContext}, nil
}

// Play starts the track and returns a task that finishes when the device
// has played every sample, or when ctx is cancelled.
func (s *Speaker) Play(ctx context.Context, track *audio.Track) (*Task, error) {
	if track.SampleRate != otoRate {
		return nil, fmt.Errorf("track is %d Hz but device is %d Hz", track.SampleRate, otoRate)
	}

	pcm := PCM16(track.Samples)
	p := s.ctx.NewPlayer(bytes.NewReader(pcm))
	p.Play()
	log.Debug("audio playback started", "samples", len(track.Samples), "rate", track.SampleRate)

	return Start(ctx, func(ctx context.Context) error {
		defer p.Close()

		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.Pause()
				return ctx.Err()
			case <-ticker.C:
				if !p.IsPlaying() {
					return p.Err()
				}
			}
		}
	}), nil
}

// Close is a no-op; the oto context lives for the process.
func (s *Speaker) Close() error {
	return nil
}
