package viseme

import (
	"errors"
	"fmt"

	"github.com/linuxmatters/jawbone/internal/audio"
	"github.com/linuxmatters/jawbone/internal/config"
)

// Frame is the analysis result for one window.
type Frame struct {
	Index   int     `json:"index"`
	StartMs int64   `json:"startMs"`
	RMS     float64 `json:"rms"`
	Pose    Pose    `json:"pose"`
}

// Sequence is the ordered list of frames for a whole track.
type Sequence struct {
	WindowMs   int     `json:"windowMs"`
	DurationMs int64   `json:"durationMs"`
	Frames     []Frame `json:"frames"`
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	return len(s.Frames)
}

// Counts tallies how many frames use each pose.
func (s *Sequence) Counts() map[Pose]int {
	counts := make(map[Pose]int, len(Poses))
	for _, f := range s.Frames {
		counts[f.Pose]++
	}
	return counts
}

// VideoDurationMs is the length of a video showing one frame per window.
func (s *Sequence) VideoDurationMs() int64 {
	return int64(len(s.Frames)) * int64(s.WindowMs)
}

// ProgressCallback is called after each window is analysed.
type ProgressCallback func(window, totalWindows int)

// Options configures Analyze.
type Options struct {
	WindowMs   int
	Thresholds Thresholds

	// PadTail includes a trailing partial window, zero-padded to full
	// length, instead of dropping it.
	PadTail bool

	Progress ProgressCallback
}

// DefaultOptions returns the built-in window length and thresholds.
func DefaultOptions() Options {
	return Options{
		WindowMs: config.WindowMs,
		Thresholds: Thresholds{
			Low:  config.LowThreshold,
			High: config.HighThreshold,
		},
	}
}

// ErrInvalidWindow is returned for a non-positive window duration.
var ErrInvalidWindow = errors.New("window duration must be positive")

// WindowCount returns the number of whole windows in durationMs. Any
// trailing partial window is not counted.
func WindowCount(durationMs int64, windowMs int) int {
	if windowMs <= 0 || durationMs <= 0 {
		return 0
	}
	return int(durationMs / int64(windowMs))
}

// Analyze measures RMS loudness over consecutive fixed-length windows of the
// track and classifies each one.
func Analyze(track *audio.Track, opts Options) (*Sequence, error) {
	if opts.WindowMs <= 0 {
		return nil, ErrInvalidWindow
	}
	if track == nil || track.SampleRate <= 0 {
		return nil, fmt.Errorf("analyze: track has no sample rate")
	}

	durationMs := track.DurationMs()
	count := WindowCount(durationMs, opts.WindowMs)
	if opts.PadTail && windowStart(count, opts.WindowMs, track.SampleRate) < len(track.Samples) {
		count++
	}

	seq := &Sequence{
		WindowMs:   opts.WindowMs,
		DurationMs: durationMs,
		Frames:     make([]Frame, 0, count),
	}

	for i := 0; i < count; i++ {
		start := windowStart(i, opts.WindowMs, track.SampleRate)
		end := windowStart(i+1, opts.WindowMs, track.SampleRate)
		rms := windowRMS(track, start, end)

		seq.Frames = append(seq.Frames, Frame{
			Index:   i,
			StartMs: int64(i) * int64(opts.WindowMs),
			RMS:     rms,
			Pose:    Classify(rms, opts.Thresholds),
		})

		if opts.Progress != nil {
			opts.Progress(i+1, count)
		}
	}

	return seq, nil
}

// windowStart is the sample index where window i begins. Computing it from
// milliseconds keeps windows aligned when a window is not a whole number of
// samples long.
func windowStart(i, windowMs, sampleRate int) int {
	return int(int64(i) * int64(windowMs) * int64(sampleRate) / 1000)
}

// windowRMS measures frames [start, end) on the 16-bit scale.
func windowRMS(track *audio.Track, start, end int) float64 {
	return track.RMS(start, end) * config.RMSScale
}
