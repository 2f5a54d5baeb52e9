package encoder

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/linuxmatters/jawbone/internal/config"
	"github.com/linuxmatters/jawbone/internal/ffmpeg"
)

// MuxConfig describes one mux run.
type MuxConfig struct {
	VideoPath    string // Silent video written by the Encoder
	AudioPath    string // Decoded WAV audio
	OutputPath   string
	AudioCodec   string // Defaults to aac
	AudioBitrate string // Defaults to 192k; empty leaves ffmpeg's default
	FFmpegPath   string
}

// MuxArgs builds the ffmpeg command line that copies the video stream and
// encodes the audio into the output container.
func MuxArgs(cfg MuxConfig) []string {
	codec := cfg.AudioCodec
	if codec == "" {
		codec = config.AudioCodec
	}

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", cfg.VideoPath,
		"-i", cfg.AudioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", codec,
	}
	if cfg.AudioBitrate != "" {
		args = append(args, "-b:a", cfg.AudioBitrate)
	}
	return append(args, cfg.OutputPath)
}

// Mux runs ffmpeg to combine the silent video with the audio track. A
// non-zero exit status or a missing output is reported as a MuxError.
func Mux(ctx context.Context, cfg MuxConfig) error {
	muxErr := func(err error) error {
		return &MuxError{Video: cfg.VideoPath, Audio: cfg.AudioPath, Output: cfg.OutputPath, Err: err}
	}

	for _, in := range []string{cfg.VideoPath, cfg.AudioPath} {
		if _, err := os.Stat(in); err != nil {
			return muxErr(err)
		}
	}

	ffmpegPath, err := ffmpeg.ResolvePath(cfg.FFmpegPath)
	if err != nil {
		return muxErr(err)
	}

	if err := ffmpeg.Run(ctx, ffmpegPath, MuxArgs(cfg)); err != nil {
		return muxErr(err)
	}

	info, err := os.Stat(cfg.OutputPath)
	if err != nil {
		return muxErr(fmt.Errorf("output not created: %w", err))
	}
	if info.Size() == 0 {
		return muxErr(errors.New("output is empty"))
	}

	log.Debug("muxed audio", "video", cfg.VideoPath, "audio", cfg.AudioPath, "output", cfg.OutputPath)
	return nil
}
