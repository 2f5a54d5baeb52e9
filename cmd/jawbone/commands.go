package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/linuxmatters/jawbone/internal/cli"
	"github.com/linuxmatters/jawbone/internal/player"
	"github.com/linuxmatters/jawbone/internal/renderer"
	"github.com/linuxmatters/jawbone/internal/session"
	"github.com/linuxmatters/jawbone/internal/sink"
	"github.com/linuxmatters/jawbone/internal/ui"
	"github.com/mattn/go-isatty"
)

// RenderCmd renders the animation to an MP4.
type RenderCmd struct {
	Audio  string `arg:"" help:"Input audio (WAV, MP3, FLAC, or anything ffmpeg reads)." type:"existingfile"`
	Output string `arg:"" help:"Output MP4 file." default:"${output}" optional:""`

	AnalysisFlags
	CanvasFlags

	Timeline         string `help:"Use a timeline saved by analyze instead of analysing the audio." type:"existingfile"`
	Intermediate     string `help:"Path for the silent video; derived from the output when empty." type:"path"`
	KeepIntermediate bool   `help:"Keep the silent video after muxing."`
	Thumbnail        bool   `help:"Write a PNG poster frame next to the output."`
	AudioCodec       string `help:"Audio codec for the final file." default:"${audio_codec}" env:"JAWBONE_AUDIO_CODEC"`
	AudioBitrate     string `help:"Audio bitrate for the final file." default:"${audio_bitrate}" env:"JAWBONE_AUDIO_BITRATE"`
	NoPreview        bool   `help:"Disable the frame preview during rendering."`
}

func (c *RenderCmd) Run(g *Globals) error {
	s := settings(g, &c.AnalysisFlags, &c.CanvasFlags)
	s.AudioCodec = c.AudioCodec
	s.AudioBitrate = c.AudioBitrate

	ctx, cancel := context.WithCancel(g.ctx)
	defer cancel()

	tty := interactive()
	model := ui.NewModel(s.WindowMs, c.NoPreview || !tty)
	p := tea.NewProgram(model, programOptions(ctx, tty)...)

	var renderErr error
	done := make(chan struct{})

	go func() {
		defer close(done)

		analysisStart := time.Now()
		sess, err := session.Init(ctx, s, c.Audio, session.Options{
			NeedWAV:      true,
			TimelinePath: c.Timeline,
			Progress: func(window, total int) {
				p.Send(ui.AnalysisProgress{Window: window, TotalWindows: total, Elapsed: time.Since(analysisStart)})
			},
		})
		if err != nil {
			renderErr = err
			p.Send(ui.RenderFailed{Err: err})
			return
		}

		p.Send(ui.AnalysisComplete{
			Windows:      sess.Sequence.Len(),
			WindowMs:     sess.Sequence.WindowMs,
			Duration:     sess.Track.Duration(),
			Counts:       sess.Sequence.Counts(),
			AnalysisTime: sess.AnalysisTime,
		})

		opts := sink.RenderOptions{
			Canvas:           sess.Canvas,
			Poses:            sess.Poses,
			AudioPath:        sess.AudioWAV,
			OutputPath:       c.Output,
			IntermediatePath: c.Intermediate,
			KeepIntermediate: c.KeepIntermediate,
			AudioCodec:       s.AudioCodec,
			AudioBitrate:     s.AudioBitrate,
			FFmpegPath:       s.FFmpegPath,
			Reporter:         p,
		}
		if c.Thumbnail {
			opts.ThumbnailPath = strings.TrimSuffix(c.Output, filepath.Ext(c.Output)) + ".png"
		}

		renderErr = sink.NewRender(opts).Consume(ctx, sess.Sequence)
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		cancel()
		<-done
		return fmt.Errorf("running UI: %w", err)
	}

	// The UI may have been quit with ctrl+c while rendering continues
	cancel()
	<-done

	if errors.Is(renderErr, context.Canceled) {
		return errors.New("render interrupted")
	}
	if renderErr != nil {
		return renderErr
	}
	summary := model.CompletionSummary()
	if summary == "" {
		return errors.New("render interrupted")
	}
	if !tty {
		fmt.Println(summary)
	}

	cli.PrintSuccess(fmt.Sprintf("Done! Output: %s", c.Output))
	return nil
}

// interactive reports whether stdin and stdout are both terminals.
func interactive() bool {
	isTTY := func(fd uintptr) bool {
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return isTTY(os.Stdin.Fd()) && isTTY(os.Stdout.Fd())
}

// programOptions configures the progress UI. Without a terminal it reads no
// input and draws nothing, so batch renders from scripts and CI still run.
func programOptions(ctx context.Context, tty bool) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !tty {
		opts = append(opts, tea.WithInput(nil), tea.WithoutRenderer())
	}
	return opts
}

// LiveCmd plays the animation in the terminal.
type LiveCmd struct {
	Audio string `arg:"" help:"Input audio (WAV, MP3, FLAC, or anything ffmpeg reads)." type:"existingfile"`

	AnalysisFlags
	CanvasFlags

	Timeline  string `help:"Use a timeline saved by analyze instead of analysing the audio." type:"existingfile"`
	Mute      bool   `help:"Animate without playing the audio." env:"JAWBONE_MUTE"`
	WaitAudio bool   `help:"Keep playing audio after the last frame until it ends."`
	NoPreview bool   `help:"Show pose names only, without the frame preview."`
}

func (c *LiveCmd) Run(g *Globals) error {
	s := settings(g, &c.AnalysisFlags, &c.CanvasFlags)

	sess, err := session.Init(g.ctx, s, c.Audio, session.Options{TimelinePath: c.Timeline})
	if err != nil {
		return err
	}

	var out player.Player = player.Silent{}
	if !c.Mute {
		speaker, err := player.NewSpeaker(sess.Track.SampleRate)
		if err != nil {
			log.Warn("audio output unavailable, animating silently", "error", err)
		} else {
			out = speaker
		}
	}
	defer out.Close()

	live := sink.NewLive(sink.LiveOptions{
		Track:     sess.Track,
		Player:    out,
		Canvas:    sess.Canvas,
		Poses:     sess.Poses,
		WaitAudio: c.WaitAudio,
		NoPreview: c.NoPreview,
		Title:     filepath.Base(c.Audio),
	})
	if err := live.Consume(g.ctx, sess.Sequence); err != nil {
		return err
	}

	res := live.Result()
	if res.Interrupted {
		cli.PrintWarning(fmt.Sprintf("Stopped after %d of %d frames", res.Shown, res.Total))
		return nil
	}
	cli.PrintSuccess(fmt.Sprintf("Played %d frames", res.Shown))
	return nil
}

// AnalyzeCmd prints the pose breakdown.
type AnalyzeCmd struct {
	Audio string `arg:"" help:"Input audio (WAV, MP3, FLAC, or anything ffmpeg reads)." type:"existingfile"`

	AnalysisFlags

	JSON string `name:"json" help:"Write the timeline as JSON to this file, or - for stdout." placeholder:"FILE"`
}

func (c *AnalyzeCmd) Run(g *Globals) error {
	s := settings(g, &c.AnalysisFlags, nil)

	sess, err := session.Init(g.ctx, s, c.Audio, session.Options{SkipPoses: true})
	if err != nil {
		return err
	}

	if c.JSON == "-" {
		return sess.Sequence.WriteJSON(os.Stdout)
	}

	cli.PrintBanner()
	cli.PrintAnalysisSummary(c.Audio, sess.Track.Duration(), sess.Sequence)

	if c.JSON != "" {
		if err := sess.Sequence.SaveJSON(c.JSON); err != nil {
			return err
		}
		cli.PrintSuccess(fmt.Sprintf("Timeline written to %s", c.JSON))
	}
	return nil
}

// SplitCmd cuts a composite into the three pose images.
type SplitCmd struct {
	Composite string `arg:"" help:"Composite image with closed, open and tongue poses side by side." default:"${composite}" optional:""`
	Dir       string `help:"Directory for the pose images." default:"." type:"path"`
}

func (c *SplitCmd) Run(g *Globals) error {
	cli.PrintSection("Splitting composite")
	cli.PrintInfo("Source", c.Composite)
	res := renderer.SplitComposite(c.Composite, renderer.DefaultSplitOutputs(c.Dir))

	switch res.Status {
	case renderer.SplitOK:
		for _, path := range res.Paths {
			cli.PrintSuccess(fmt.Sprintf("Wrote %s", path))
		}
		return nil
	case renderer.SplitNotFound:
		return fmt.Errorf("composite image not found: %s", c.Composite)
	default:
		return fmt.Errorf("could not split %s: %w", c.Composite, res.Err)
	}
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	cli.PrintVersion(version)
	return nil
}
