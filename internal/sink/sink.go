// Package sink turns an analysed pose sequence into output: a live
// animation in the terminal or a rendered MP4.
package sink

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jawbone/internal/renderer"
	"github.com/linuxmatters/jawbone/internal/viseme"
)

// Sink consumes a pose sequence.
type Sink interface {
	Consume(ctx context.Context, seq *viseme.Sequence) error
}

// Reporter receives progress messages. *tea.Program satisfies it.
type Reporter interface {
	Send(msg tea.Msg)
}

type discardReporter struct{}

func (discardReporter) Send(tea.Msg) {}

// ErrEmptySequence is returned when there is nothing to show, typically
// because the audio is shorter than one window.
var ErrEmptySequence = errors.New("pose sequence is empty: audio shorter than one window")

// checkPoses fails early when the sequence uses a pose the set cannot draw.
func checkPoses(seq *viseme.Sequence, poses *renderer.PoseSet) error {
	for pose, n := range seq.Counts() {
		if n == 0 {
			continue
		}
		if _, err := poses.Get(pose); err != nil {
			return err
		}
	}
	return nil
}
