package encoder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/charmbracelet/log"
	"github.com/linuxmatters/jawbone/internal/config"
	"github.com/linuxmatters/jawbone/internal/ffmpeg"
)

// Config holds the encoder configuration
type Config struct {
	OutputPath string // Path to the silent MP4 file
	Width      int    // Video width in pixels
	Height     int    // Video height in pixels
	FrameRate  string // ffmpeg rate, e.g. "1000/100" for 100ms windows
	VideoCodec string // Defaults to libx264
	FFmpegPath string // Empty searches PATH
}

// Encoder pipes raw RGB24 frames into an ffmpeg subprocess that writes a
// video-only MP4.
type Encoder struct {
	config  Config
	proc    *ffmpeg.Process
	rgbBuf  []byte
	frames  int
	closed  bool
	lastErr error
}

// New creates a new encoder instance
func New(cfg Config) (*Encoder, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width%2 != 0 || cfg.Height%2 != 0 {
		return nil, fmt.Errorf("dimensions must be even for yuv420p: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FrameRate == "" {
		return nil, errors.New("frame rate cannot be empty")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("output path cannot be empty")
	}
	if cfg.VideoCodec == "" {
		cfg.VideoCodec = config.VideoCodec
	}

	return &Encoder{config: cfg}, nil
}

// Args returns the ffmpeg command line used to encode the frames.
func (e *Encoder) Args() []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", e.config.Width, e.config.Height),
		"-framerate", e.config.FrameRate,
		"-i", "pipe:0",
		"-an",
		"-c:v", e.config.VideoCodec,
		"-preset", "ultrafast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		e.config.OutputPath,
	}
}

// Initialize starts the ffmpeg subprocess
func (e *Encoder) Initialize(ctx context.Context) error {
	if e.proc != nil {
		return errors.New("encoder already initialized")
	}

	ffmpegPath, err := ffmpeg.ResolvePath(e.config.FFmpegPath)
	if err != nil {
		return &VideoWriteError{Path: e.config.OutputPath, Frame: -1, Err: err}
	}

	proc, err := ffmpeg.Start(ctx, ffmpegPath, e.Args())
	if err != nil {
		return &VideoWriteError{Path: e.config.OutputPath, Frame: -1, Err: err}
	}
	e.proc = proc

	log.Debug("video encoder started",
		"output", e.config.OutputPath,
		"size", fmt.Sprintf("%dx%d", e.config.Width, e.config.Height),
		"rate", e.config.FrameRate)
	return nil
}

// WriteFrame converts an RGBA image to RGB24 and sends it to the encoder
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != e.config.Width || b.Dy() != e.config.Height {
		return &VideoWriteError{
			Path:  e.config.OutputPath,
			Frame: e.frames,
			Err:   fmt.Errorf("frame is %dx%d, expected %dx%d", b.Dx(), b.Dy(), e.config.Width, e.config.Height),
		}
	}

	e.rgbBuf = PackRGB24(e.rgbBuf, img)
	return e.WriteFrameRGB(e.rgbBuf)
}

// WriteFrameRGB writes one packed RGB24 frame
func (e *Encoder) WriteFrameRGB(rgbData []byte) error {
	if e.proc == nil || e.closed {
		return &VideoWriteError{Path: e.config.OutputPath, Frame: e.frames, Err: errors.New("encoder is not running")}
	}

	expectedSize := e.config.Width * e.config.Height * 3
	if len(rgbData) != expectedSize {
		return &VideoWriteError{
			Path:  e.config.OutputPath,
			Frame: e.frames,
			Err:   fmt.Errorf("invalid frame size: got %d, expected %d", len(rgbData), expectedSize),
		}
	}

	if _, err := e.proc.Write(rgbData); err != nil {
		// A broken pipe means ffmpeg exited; Close reports its stderr
		return &VideoWriteError{Path: e.config.OutputPath, Frame: e.frames, Err: err}
	}

	e.frames++
	return nil
}

// Close flushes stdin and waits for ffmpeg to finalise the file. It is safe
// to call more than once; later calls return the first result.
func (e *Encoder) Close() error {
	if e.closed {
		return e.lastErr
	}
	e.closed = true

	if e.proc == nil {
		return nil
	}

	if err := e.proc.Wait(); err != nil {
		e.lastErr = &VideoWriteError{Path: e.config.OutputPath, Frame: -1, Err: err}
		return e.lastErr
	}

	log.Debug("video encoder finished", "output", e.config.OutputPath, "frames", e.frames)
	return nil
}

// Abort stops ffmpeg without finalising and removes the partial output.
func (e *Encoder) Abort() {
	if e.closed {
		return
	}
	e.closed = true
	if e.proc != nil {
		e.proc.Kill()
	}
	if err := os.Remove(e.config.OutputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("failed to remove partial video", "path", e.config.OutputPath, "error", err)
	}
}
