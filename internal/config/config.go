package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Canvas settings
const (
	Width   = 400
	Height  = 400
	AnchorX = 100 // Pose image offset from the left edge
	AnchorY = 100 // Pose image offset from the top edge
)

// Analysis settings
const (
	WindowMs      = 100    // Duration of one loudness window (and one video frame)
	LowThreshold  = 500.0  // RMS below this is a closed mouth
	HighThreshold = 1500.0 // RMS at or above this shows the tongue

	// RMSScale maps normalised sample RMS (0.0-1.0) onto the 16-bit integer
	// scale the thresholds are expressed in.
	RMSScale = 32768.0

	// TranscodeSampleRate is the rate ffmpeg resamples to when converting
	// unsupported containers into the cached WAV.
	TranscodeSampleRate = 44100
)

// Appearance
const (
	BackgroundColor = "#FFFFFF"
	CaptionColor    = "#202020"
	PoseScale       = 1.0

	CaptionFontSize = 28.0
	CaptionMargin   = 24 // Distance in pixels between caption baseline and bottom edge
)

// Pose image defaults, as written by the split subcommand
const (
	ClosedPoseImage = "mouth_closed.png"
	OpenPoseImage   = "mouth_open.png"
	TonguePoseImage = "mouth_tongue.png"
	CompositeImage  = "composite_mouth.png"
)

// Output settings
const (
	OutputVideo        = "final_video.mp4"
	IntermediateSuffix = ".silent.mp4"
	VideoCodec         = "libx264"
	AudioCodec         = "aac"
	AudioBitrate       = "192k"
	CacheDirName       = "jawbone"
)

// Settings is the fully resolved configuration handed to each component.
// The CLI fills it from flags, environment and the optional JSON config file.
type Settings struct {
	WindowMs      int     `validate:"min=1,max=10000"`
	LowThreshold  float64 `validate:"gte=0"`
	HighThreshold float64 `validate:"gtfield=LowThreshold"`
	PadTail       bool

	Width   int `validate:"min=2,max=7680"`
	Height  int `validate:"min=2,max=4320"`
	AnchorX int
	AnchorY int

	ClosedImage string `validate:"required"`
	OpenImage   string `validate:"required"`
	TongueImage string `validate:"required"`

	Background   string  `validate:"required"`
	PoseScale    float64 `validate:"gt=0,lte=8"`
	Caption      string
	CaptionColor string

	FFmpegPath   string
	CacheDir     string
	AudioCodec   string `validate:"required"`
	AudioBitrate string
}

// Defaults returns Settings populated with the built-in defaults.
func Defaults() Settings {
	return Settings{
		WindowMs:      WindowMs,
		LowThreshold:  LowThreshold,
		HighThreshold: HighThreshold,
		Width:         Width,
		Height:        Height,
		AnchorX:       AnchorX,
		AnchorY:       AnchorY,
		ClosedImage:   ClosedPoseImage,
		OpenImage:     OpenPoseImage,
		TongueImage:   TonguePoseImage,
		Background:    BackgroundColor,
		PoseScale:     PoseScale,
		CaptionColor:  CaptionColor,
		AudioCodec:    AudioCodec,
		AudioBitrate:  AudioBitrate,
	}
}

// FrameRate returns the video frame rate implied by a window duration as
// an ffmpeg rational ("1000/100" for 100ms windows, i.e. 10fps).
func FrameRate(windowMs int) string {
	return fmt.Sprintf("1000/%d", windowMs)
}

// FPS returns the frame rate for a window duration as a float for display.
func FPS(windowMs int) float64 {
	if windowMs <= 0 {
		return 0
	}
	return 1000.0 / float64(windowMs)
}

// BackgroundRGBA resolves the background hex colour.
func (s Settings) BackgroundRGBA() (color.RGBA, error) {
	return parseColorSetting("background", s.Background, BackgroundColor)
}

// CaptionRGBA resolves the caption hex colour.
func (s Settings) CaptionRGBA() (color.RGBA, error) {
	return parseColorSetting("caption colour", s.CaptionColor, CaptionColor)
}

func parseColorSetting(name, value, fallback string) (color.RGBA, error) {
	if value == "" {
		value = fallback
	}
	r, g, b, err := ParseHexColor(value)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid %s: %w", name, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// ErrInvalidHexColor is returned by ParseHexColor for malformed input.
var ErrInvalidHexColor = errors.New("hex colour must be 6 hex digits, optionally prefixed with #")

// ParseHexColor parses "RRGGBB" or "#RRGGBB" (any case) into its components.
func ParseHexColor(hex string) (r, g, b uint8, err error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
	}

	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
