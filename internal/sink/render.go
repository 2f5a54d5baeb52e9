package sink

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/linuxmatters/jawbone/internal/config"
	"github.com/linuxmatters/jawbone/internal/encoder"
	"github.com/linuxmatters/jawbone/internal/renderer"
	"github.com/linuxmatters/jawbone/internal/ui"
	"github.com/linuxmatters/jawbone/internal/viseme"
)

// previewInterval is how often a frame copy is sent to the progress UI.
const previewInterval = 10

// FrameEncoder writes frames into a silent video. *encoder.Encoder
// satisfies it.
type FrameEncoder interface {
	Initialize(ctx context.Context) error
	WriteFrame(img *image.RGBA) error
	Close() error
	Abort()
}

// RenderOptions configures the render sink.
type RenderOptions struct {
	Canvas renderer.Canvas
	Poses  *renderer.PoseSet

	AudioPath        string // WAV muxed into the output
	OutputPath       string
	IntermediatePath string // Silent video; derived from OutputPath when empty
	KeepIntermediate bool
	ThumbnailPath    string // Poster frame PNG; none when empty

	VideoCodec   string
	AudioCodec   string
	AudioBitrate string
	FFmpegPath   string

	Reporter Reporter
}

// Render encodes every frame of the sequence, then muxes the audio back in.
type Render struct {
	opts RenderOptions

	newEncoder func(encoder.Config) (FrameEncoder, error)
	mux        func(context.Context, encoder.MuxConfig) error
}

// NewRender creates a render sink using the ffmpeg encoder and muxer.
func NewRender(opts RenderOptions) *Render {
	if opts.IntermediatePath == "" {
		opts.IntermediatePath = IntermediatePath(opts.OutputPath)
	}
	if opts.Reporter == nil {
		opts.Reporter = discardReporter{}
	}
	return &Render{
		opts: opts,
		newEncoder: func(cfg encoder.Config) (FrameEncoder, error) {
			return encoder.New(cfg)
		},
		mux: encoder.Mux,
	}
}

// IntermediatePath derives the silent video path from the final output,
// e.g. talk.mp4 -> talk.silent.mp4.
func IntermediatePath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + config.IntermediateSuffix
}

// Consume renders seq to the output file. Progress and the final summary go
// to the reporter; any failure is also reported as ui.RenderFailed.
func (r *Render) Consume(ctx context.Context, seq *viseme.Sequence) (err error) {
	rep := r.opts.Reporter
	defer func() {
		if err != nil {
			rep.Send(ui.RenderFailed{Err: err})
		}
	}()

	if seq.Len() == 0 {
		return ErrEmptySequence
	}
	if err := checkPoses(seq, r.opts.Poses); err != nil {
		return err
	}

	start := time.Now()

	frame, err := renderer.NewFrame(r.opts.Canvas, r.opts.Poses)
	if err != nil {
		return err
	}
	defer frame.Close()

	enc, err := r.newEncoder(encoder.Config{
		OutputPath: r.opts.IntermediatePath,
		Width:      r.opts.Canvas.Width,
		Height:     r.opts.Canvas.Height,
		FrameRate:  config.FrameRate(seq.WindowMs),
		VideoCodec: r.opts.VideoCodec,
		FFmpegPath: r.opts.FFmpegPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}
	if err := enc.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize encoder: %w", err)
	}
	defer func() {
		if err != nil {
			enc.Abort()
		}
		enc.Close()
	}()

	var drawTime, encodeTime time.Duration
	total := seq.Len()

	for i, f := range seq.Frames {
		if err := ctx.Err(); err != nil {
			return err
		}

		t0 := time.Now()
		if err := frame.Draw(f.Pose); err != nil {
			return fmt.Errorf("frame %d: %w", f.Index, err)
		}
		t1 := time.Now()
		if err := enc.WriteFrame(frame.Image()); err != nil {
			return err
		}
		drawTime += t1.Sub(t0)
		encodeTime += time.Since(t1)

		progress := ui.RenderProgress{
			Frame:       i + 1,
			TotalFrames: total,
			Elapsed:     time.Since(start),
			Pose:        f.Pose,
		}
		if i%previewInterval == 0 || i == total-1 {
			progress.FrameData = cloneRGBA(frame.Image())
			progress.FileSize = fileSize(r.opts.IntermediatePath)
		}
		rep.Send(progress)
	}

	closeStart := time.Now()
	if err := enc.Close(); err != nil {
		return err
	}
	encodeTime += time.Since(closeStart)

	rep.Send(ui.MuxStarted{})
	muxStart := time.Now()
	err = r.mux(ctx, encoder.MuxConfig{
		VideoPath:    r.opts.IntermediatePath,
		AudioPath:    r.opts.AudioPath,
		OutputPath:   r.opts.OutputPath,
		AudioCodec:   r.opts.AudioCodec,
		AudioBitrate: r.opts.AudioBitrate,
		FFmpegPath:   r.opts.FFmpegPath,
	})
	if err != nil {
		log.Warn("mux failed, silent video left in place", "path", r.opts.IntermediatePath)
		return err
	}
	muxTime := time.Since(muxStart)

	kept := r.opts.IntermediatePath
	if !r.opts.KeepIntermediate {
		if err := os.Remove(r.opts.IntermediatePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("failed to remove silent video", "path", r.opts.IntermediatePath, "error", err)
		}
		kept = ""
	}

	var thumbTime time.Duration
	if r.opts.ThumbnailPath != "" {
		t0 := time.Now()
		if err := renderer.GenerateThumbnail(r.opts.ThumbnailPath, r.opts.Canvas, r.opts.Poses, viseme.Open); err != nil {
			return err
		}
		thumbTime = time.Since(t0)
	}

	log.Debug("render finished",
		"output", r.opts.OutputPath,
		"frames", total,
		"elapsed", time.Since(start))

	rep.Send(ui.RenderComplete{
		OutputFile:    r.opts.OutputPath,
		Intermediate:  kept,
		Thumbnail:     r.opts.ThumbnailPath,
		FileSize:      fileSize(r.opts.OutputPath),
		TotalFrames:   total,
		WindowMs:      seq.WindowMs,
		DrawTime:      drawTime,
		EncodeTime:    encodeTime,
		MuxTime:       muxTime,
		ThumbnailTime: thumbTime,
		TotalTime:     time.Since(start),
	})
	return nil
}

// cloneRGBA copies img so the UI can hold it while the frame is redrawn.
func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
