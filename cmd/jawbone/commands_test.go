package main

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jawbone/internal/ui"
)

// A headless progress program must run without opening a TTY.
func TestHeadlessProgramRuns(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	model := ui.NewModel(100, true)
	p := tea.NewProgram(model, programOptions(ctx, false)...)

	go func() {
		p.Send(ui.AnalysisComplete{Windows: 1, WindowMs: 100})
		p.Send(ui.RenderFailed{Err: errors.New("stop")})
	}()

	if _, err := p.Run(); err != nil {
		t.Fatalf("Run() without a terminal: %v", err)
	}
	if model.Phase() != ui.PhaseRendering {
		t.Errorf("phase = %v, want rendering", model.Phase())
	}
}

func TestProgramOptions(t *testing.T) {
	ctx := context.Background()
	if got := len(programOptions(ctx, true)); got != 1 {
		t.Errorf("interactive options = %d, want 1", got)
	}
	if got := len(programOptions(ctx, false)); got != 3 {
		t.Errorf("headless options = %d, want 3", got)
	}
}
