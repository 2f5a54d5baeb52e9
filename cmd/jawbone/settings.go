package main

import (
	"strconv"

	"github.com/linuxmatters/jawbone/internal/config"
)

// AnalysisFlags control how loudness is bucketed into poses.
type AnalysisFlags struct {
	WindowMs      int     `help:"Loudness window and frame duration in milliseconds." default:"${window_ms}" env:"JAWBONE_WINDOW_MS"`
	LowThreshold  float64 `name:"low" help:"RMS (16-bit scale) at which the mouth opens." default:"${low_threshold}" env:"JAWBONE_LOW"`
	HighThreshold float64 `name:"high" help:"RMS (16-bit scale) at which the tongue shows." default:"${high_threshold}" env:"JAWBONE_HIGH"`
	PadTail       bool    `help:"Include the trailing partial window, padded with silence." env:"JAWBONE_PAD_TAIL"`
}

// CanvasFlags control how each frame is drawn.
type CanvasFlags struct {
	Width        int     `help:"Canvas width in pixels." default:"${width}" env:"JAWBONE_WIDTH"`
	Height       int     `help:"Canvas height in pixels." default:"${height}" env:"JAWBONE_HEIGHT"`
	AnchorX      int     `help:"Pose image offset from the left edge." default:"${anchor_x}" env:"JAWBONE_ANCHOR_X"`
	AnchorY      int     `help:"Pose image offset from the top edge." default:"${anchor_y}" env:"JAWBONE_ANCHOR_Y"`
	Closed       string  `help:"Closed mouth image." default:"${closed_image}" type:"path" env:"JAWBONE_CLOSED"`
	Open         string  `help:"Open mouth image." default:"${open_image}" type:"path" env:"JAWBONE_OPEN"`
	Tongue       string  `help:"Tongue-out mouth image." default:"${tongue_image}" type:"path" env:"JAWBONE_TONGUE"`
	Background   string  `help:"Background colour as hex." default:"${background}" env:"JAWBONE_BACKGROUND"`
	PoseScale    float64 `help:"Scale factor applied to the pose images." default:"${pose_scale}" env:"JAWBONE_POSE_SCALE"`
	Caption      string  `help:"Caption drawn near the bottom of every frame." env:"JAWBONE_CAPTION"`
	CaptionColor string  `help:"Caption colour as hex." default:"${caption_color}" env:"JAWBONE_CAPTION_COLOR"`
}

// settings merges the global and per-command flags over the defaults.
func settings(g *Globals, a *AnalysisFlags, c *CanvasFlags) config.Settings {
	s := config.Defaults()
	s.FFmpegPath = g.FFmpeg
	s.CacheDir = g.CacheDir

	if a != nil {
		s.WindowMs = a.WindowMs
		s.LowThreshold = a.LowThreshold
		s.HighThreshold = a.HighThreshold
		s.PadTail = a.PadTail
	}

	if c != nil {
		s.Width = c.Width
		s.Height = c.Height
		s.AnchorX = c.AnchorX
		s.AnchorY = c.AnchorY
		s.ClosedImage = c.Closed
		s.OpenImage = c.Open
		s.TongueImage = c.Tongue
		s.Background = c.Background
		s.PoseScale = c.PoseScale
		s.Caption = c.Caption
		s.CaptionColor = c.CaptionColor
	}

	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
