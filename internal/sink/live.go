package sink

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/linuxmatters/jawbone/internal/audio"
	"github.com/linuxmatters/jawbone/internal/player"
	"github.com/linuxmatters/jawbone/internal/renderer"
	"github.com/linuxmatters/jawbone/internal/ui"
	"github.com/linuxmatters/jawbone/internal/viseme"
)

// LiveOptions configures the live sink.
type LiveOptions struct {
	Track  *audio.Track
	Player player.Player // Defaults to player.Silent
	Canvas renderer.Canvas
	Poses  *renderer.PoseSet

	// WaitAudio keeps the sink blocked until playback finishes after the
	// last frame. Otherwise playback is cancelled when the display ends.
	WaitAudio bool
	NoPreview bool
	Title     string
}

// Live plays the track and animates the poses in the terminal.
type Live struct {
	opts   LiveOptions
	run    func(ctx context.Context, m tea.Model) error
	result ui.LiveResult
}

// NewLive creates a live sink driven by a full-screen Bubbletea program.
func NewLive(opts LiveOptions) *Live {
	if opts.Player == nil {
		opts.Player = player.Silent{}
	}
	return &Live{opts: opts, run: runProgram}
}

func runProgram(ctx context.Context, m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Result reports how the last Consume ended.
func (l *Live) Result() ui.LiveResult {
	return l.result
}

// Consume starts playback and the display together, one frame per window.
func (l *Live) Consume(ctx context.Context, seq *viseme.Sequence) error {
	if seq.Len() == 0 {
		return ErrEmptySequence
	}
	if err := checkPoses(seq, l.opts.Poses); err != nil {
		return err
	}

	frame, err := renderer.NewFrame(l.opts.Canvas, l.opts.Poses)
	if err != nil {
		return err
	}
	defer frame.Close()

	model := ui.NewLiveModel(seq, frame, ui.LiveOptions{
		Title:     l.opts.Title,
		NoPreview: l.opts.NoPreview,
	})

	task, err := l.opts.Player.Play(ctx, l.opts.Track)
	if err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	runErr := l.run(ctx, model)
	l.result = model.Result()

	var playErr error
	if l.opts.WaitAudio && runErr == nil && l.result.Err == nil && !l.result.Interrupted {
		playErr = task.Wait()
	} else {
		playErr = task.Stop()
	}
	if errors.Is(playErr, context.Canceled) {
		playErr = nil
	}

	log.Debug("live playback finished",
		"shown", l.result.Shown,
		"total", l.result.Total,
		"interrupted", l.result.Interrupted)

	if runErr != nil {
		return fmt.Errorf("running live display: %w", runErr)
	}
	if l.result.Err != nil {
		return l.result.Err
	}
	if playErr != nil {
		return fmt.Errorf("playback: %w", playErr)
	}
	return nil
}
