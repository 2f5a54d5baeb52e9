// Package session performs the one-off startup work shared by every
// subcommand: validate settings, load the pose images, decode the audio and
// build the pose sequence.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/linuxmatters/jawbone/internal/audio"
	"github.com/linuxmatters/jawbone/internal/config"
	"github.com/linuxmatters/jawbone/internal/renderer"
	"github.com/linuxmatters/jawbone/internal/viseme"
)

// Options selects which parts of startup run.
type Options struct {
	// SkipPoses avoids loading pose images, for analysis-only runs.
	SkipPoses bool
	// NeedWAV resolves a WAV copy of the audio for muxing.
	NeedWAV bool
	// TimelinePath loads a saved sequence instead of analysing the audio.
	TimelinePath string
	Progress     viseme.ProgressCallback
}

// Session is everything the sinks need, built once at startup.
type Session struct {
	Settings config.Settings
	Canvas   renderer.Canvas
	Poses    *renderer.PoseSet // Nil with SkipPoses
	Track    *audio.Track
	Sequence *viseme.Sequence
	AudioWAV string // Set with NeedWAV

	AnalysisTime time.Duration
}

// Init validates settings and loads poses, audio and the pose sequence, in
// that order, so configuration mistakes surface before any decoding.
func Init(ctx context.Context, settings config.Settings, audioPath string, opts Options) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	canvas, err := renderer.CanvasFromSettings(settings)
	if err != nil {
		return nil, err
	}

	s := &Session{Settings: settings, Canvas: canvas}

	if !opts.SkipPoses {
		s.Poses, err = renderer.LoadPoseSet(renderer.PosePaths{
			Closed: settings.ClosedImage,
			Open:   settings.OpenImage,
			Tongue: settings.TongueImage,
		}, settings.PoseScale)
		if err != nil {
			return nil, err
		}
		if err := checkFit(canvas, s.Poses); err != nil {
			log.Warn("pose image exceeds canvas and will be clipped", "error", err)
		}
	}

	loadOpts := audio.LoadOptions{FFmpegPath: settings.FFmpegPath, CacheDir: settings.CacheDir}
	s.Track, err = audio.Load(ctx, audioPath, loadOpts)
	if err != nil {
		return nil, err
	}

	if opts.NeedWAV {
		tc := &audio.Transcoder{FFmpegPath: settings.FFmpegPath, CacheDir: settings.CacheDir}
		s.AudioWAV, err = tc.EnsureWAV(ctx, audioPath)
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()
	if opts.TimelinePath != "" {
		s.Sequence, err = viseme.LoadJSON(opts.TimelinePath)
		if err != nil {
			return nil, err
		}
		log.Debug("loaded timeline", "path", opts.TimelinePath, "frames", s.Sequence.Len(), "windowMs", s.Sequence.WindowMs)
	} else {
		s.Sequence, err = viseme.Analyze(s.Track, viseme.Options{
			WindowMs: settings.WindowMs,
			Thresholds: viseme.Thresholds{
				Low:  settings.LowThreshold,
				High: settings.HighThreshold,
			},
			PadTail:  settings.PadTail,
			Progress: opts.Progress,
		})
		if err != nil {
			return nil, err
		}
	}
	s.AnalysisTime = time.Since(start)

	counts := s.Sequence.Counts()
	log.Debug("pose sequence ready",
		"frames", s.Sequence.Len(),
		"closed", counts[viseme.Closed],
		"open", counts[viseme.Open],
		"tongue", counts[viseme.Tongue],
		"elapsed", s.AnalysisTime)

	return s, nil
}

// checkFit reports a pose image that does not fit inside the canvas at the
// anchor.
func checkFit(canvas renderer.Canvas, poses *renderer.PoseSet) error {
	for _, pose := range viseme.Poses {
		img, err := poses.Get(pose)
		if err != nil {
			return err
		}
		placed := img.Bounds().Sub(img.Bounds().Min).Add(canvas.Anchor)
		if !placed.In(canvas.Bounds()) {
			return fmt.Errorf("%s pose %dx%d at (%d,%d) overflows %dx%d canvas",
				pose, img.Bounds().Dx(), img.Bounds().Dy(), canvas.Anchor.X, canvas.Anchor.Y, canvas.Width, canvas.Height)
		}
	}
	return nil
}
