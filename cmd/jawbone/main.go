package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/linuxmatters/jawbone/internal/cli"
	"github.com/linuxmatters/jawbone/internal/config"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Verbose  bool   `short:"v" help:"Log debug diagnostics." env:"JAWBONE_VERBOSE"`
	LogFile  string `help:"Write diagnostics to a file instead of stderr." type:"path" env:"JAWBONE_LOG_FILE"`
	FFmpeg   string `name:"ffmpeg" help:"Path to the ffmpeg binary; searches PATH when empty." env:"JAWBONE_FFMPEG"`
	CacheDir string `help:"Directory for transcoded audio." type:"path" env:"JAWBONE_CACHE_DIR"`

	ctx context.Context
}

var CLI struct {
	Globals

	Render  RenderCmd  `cmd:"" help:"Render the animation to an MP4 with the audio muxed in."`
	Live    LiveCmd    `cmd:"" help:"Play the audio and animate the mouth in the terminal."`
	Analyze AnalyzeCmd `cmd:"" help:"Print the pose breakdown and optionally save the timeline as JSON."`
	Split   SplitCmd   `cmd:"" help:"Split a composite image into the three pose images."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("jawbone"),
		kong.Description("Turn a voice recording into a talking-mouth animation."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
		kong.Configuration(kong.JSON, "jawbone.json", "~/.config/jawbone/config.json"),
		kong.Vars{
			"window_ms":      itoa(config.WindowMs),
			"low_threshold":  ftoa(config.LowThreshold),
			"high_threshold": ftoa(config.HighThreshold),
			"width":          itoa(config.Width),
			"height":         itoa(config.Height),
			"anchor_x":       itoa(config.AnchorX),
			"anchor_y":       itoa(config.AnchorY),
			"background":     config.BackgroundColor,
			"caption_color":  config.CaptionColor,
			"pose_scale":     ftoa(config.PoseScale),
			"closed_image":   config.ClosedPoseImage,
			"open_image":     config.OpenPoseImage,
			"tongue_image":   config.TonguePoseImage,
			"composite":      config.CompositeImage,
			"output":         config.OutputVideo,
			"audio_codec":    config.AudioCodec,
			"audio_bitrate":  config.AudioBitrate,
		},
	)

	closeLog, err := cli.InitLogging(CLI.Verbose, CLI.LogFile)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	CLI.Globals.ctx = sigCtx

	err = ctx.Run(&CLI.Globals)
	stop()
	closeLog()

	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}
