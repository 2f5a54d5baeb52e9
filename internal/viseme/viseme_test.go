package viseme

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linuxmatters/jawbone/internal/audio"
)

func TestClassifyBoundaries(t *testing.T) {
	th := Thresholds{Low: 500, High: 1500}

	testCases := []struct {
		rms  float64
		want Pose
	}{
		{rms: 0, want: Closed},
		{rms: 499.999, want: Closed},
		{rms: 500, want: Open},
		{rms: 500.001, want: Open},
		{rms: 1499.999, want: Open},
		{rms: 1500, want: Tongue},
		{rms: 1500.001, want: Tongue},
		{rms: 32768, want: Tongue},
	}

	for _, tc := range testCases {
		if got := Classify(tc.rms, th); got != tc.want {
			t.Errorf("Classify(%v) = %s, want %s", tc.rms, got, tc.want)
		}
	}
}

func TestWindowCount(t *testing.T) {
	testCases := []struct {
		durationMs int64
		windowMs   int
		want       int
	}{
		{durationMs: 950, windowMs: 100, want: 9},
		{durationMs: 1000, windowMs: 100, want: 10},
		{durationMs: 99, windowMs: 100, want: 0},
		{durationMs: 0, windowMs: 100, want: 0},
		{durationMs: 1000, windowMs: 40, want: 25},
		{durationMs: 1000, windowMs: 0, want: 0},
	}

	for _, tc := range testCases {
		if got := WindowCount(tc.durationMs, tc.windowMs); got != tc.want {
			t.Errorf("WindowCount(%d, %d) = %d, want %d", tc.durationMs, tc.windowMs, got, tc.want)
		}
	}
}

func TestPoseText(t *testing.T) {
	for _, p := range Poses {
		text, err := p.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d) failed: %v", p, err)
		}
		var back Pose
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", text, err)
		}
		if back != p {
			t.Errorf("pose %s came back as %s", p, back)
		}
	}

	if _, err := ParsePose("smile"); err == nil {
		t.Error("ParsePose should reject unknown names")
	}
	if p, err := ParsePose(" Tongue "); err != nil || p != Tongue {
		t.Errorf("ParsePose(\" Tongue \") = %s, %v", p, err)
	}
	if _, err := Pose(7).MarshalText(); err == nil {
		t.Error("MarshalText should reject an invalid pose")
	}
}

// constantTrack returns a mono track whose samples alternate between +level
// and -level, giving an RMS of level on the normalised scale.
func constantTrack(sampleRate int, durationMs int, level float64) *audio.Track {
	n := sampleRate * durationMs / 1000
	samples := make([]float64, n)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = level
		} else {
			samples[i] = -level
		}
	}
	return &audio.Track{Samples: samples, SampleRate: sampleRate, Channels: 1}
}

func TestAnalyzeSilentClip(t *testing.T) {
	track := constantTrack(8000, 1000, 0)

	seq, err := Analyze(track, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if seq.Len() != 10 {
		t.Fatalf("got %d frames, want 10", seq.Len())
	}
	for _, f := range seq.Frames {
		if f.Pose != Closed {
			t.Errorf("frame %d = %s, want closed", f.Index, f.Pose)
		}
		if f.RMS != 0 {
			t.Errorf("frame %d RMS = %f, want 0", f.Index, f.RMS)
		}
	}
	if seq.VideoDurationMs() != 1000 {
		t.Errorf("VideoDurationMs() = %d, want 1000", seq.VideoDurationMs())
	}
}

func TestAnalyzeDropsTail(t *testing.T) {
	track := constantTrack(8000, 950, 0.1)

	seq, err := Analyze(track, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if seq.Len() != 9 {
		t.Errorf("got %d frames, want 9", seq.Len())
	}
	if seq.DurationMs != 950 {
		t.Errorf("DurationMs = %d, want 950", seq.DurationMs)
	}
	for i, f := range seq.Frames {
		if f.Index != i || f.StartMs != int64(i*100) {
			t.Errorf("frame %d has index %d start %d", i, f.Index, f.StartMs)
		}
	}
}

func TestAnalyzePadTail(t *testing.T) {
	// 0.1 normalised is 3276.8 on the 16-bit scale
	track := constantTrack(8000, 950, 0.1)
	opts := DefaultOptions()
	opts.PadTail = true

	seq, err := Analyze(track, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if seq.Len() != 10 {
		t.Fatalf("got %d frames, want 10", seq.Len())
	}

	full := seq.Frames[0].RMS
	if math.Abs(full-3276.8) > 0.01 {
		t.Errorf("full window RMS = %f, want 3276.8", full)
	}

	// Half the last window is padding, so energy halves
	tail := seq.Frames[9].RMS
	if want := full * math.Sqrt(0.5); math.Abs(tail-want) > 0.01 {
		t.Errorf("tail RMS = %f, want %f", tail, want)
	}
}

func TestAnalyzePadTailExactLength(t *testing.T) {
	track := constantTrack(8000, 1000, 0.1)
	opts := DefaultOptions()
	opts.PadTail = true

	seq, err := Analyze(track, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if seq.Len() != 10 {
		t.Errorf("got %d frames, want 10 with no partial window", seq.Len())
	}
}

func TestAnalyzeClassifiesLevels(t *testing.T) {
	// Three 100ms segments: quiet, moderate, loud
	rate := 8000
	per := rate / 10
	levels := []float64{100.0 / 32768, 1000.0 / 32768, 5000.0 / 32768}
	samples := make([]float64, 0, per*len(levels))
	for _, level := range levels {
		for i := 0; i < per; i++ {
			if i%2 == 0 {
				samples = append(samples, level)
			} else {
				samples = append(samples, -level)
			}
		}
	}
	track := &audio.Track{Samples: samples, SampleRate: rate, Channels: 1}

	var calls []int
	opts := DefaultOptions()
	opts.Progress = func(window, total int) {
		if total != 3 {
			t.Errorf("progress total = %d, want 3", total)
		}
		calls = append(calls, window)
	}

	seq, err := Analyze(track, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	want := []Pose{Closed, Open, Tongue}
	if seq.Len() != len(want) {
		t.Fatalf("got %d frames, want %d", seq.Len(), len(want))
	}
	for i := range want {
		if got := seq.Frames[i].Pose; got != want[i] {
			t.Errorf("window %d = %s, want %s", i, got, want[i])
		}
	}
	if len(calls) != 3 || calls[2] != 3 {
		t.Errorf("progress calls = %v, want [1 2 3]", calls)
	}

	counts := seq.Counts()
	if counts[Closed] != 1 || counts[Open] != 1 || counts[Tongue] != 1 {
		t.Errorf("Counts() = %v", counts)
	}
}

func TestAnalyzeRejectsBadWindow(t *testing.T) {
	opts := DefaultOptions()
	opts.WindowMs = 0
	if _, err := Analyze(constantTrack(8000, 100, 0), opts); err == nil {
		t.Error("expected error for zero window")
	}
}

func TestTimelineJSON(t *testing.T) {
	seq := &Sequence{
		WindowMs:   100,
		DurationMs: 250,
		Frames: []Frame{
			{Index: 0, StartMs: 0, RMS: 12.5, Pose: Closed},
			{Index: 1, StartMs: 100, RMS: 900, Pose: Open},
		},
	}

	var buf bytes.Buffer
	if err := seq.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"pose": "open"`) {
		t.Errorf("poses should be written by name, got:\n%s", buf.String())
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("timeline is not valid JSON: %v", err)
	}
	for _, key := range []string{"windowMs", "durationMs", "frames"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("timeline missing %q", key)
		}
	}

	path := filepath.Join(t.TempDir(), "timeline.json")
	if err := seq.SaveJSON(path); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}
	loaded, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if loaded.Len() != 2 || loaded.Frames[1].Pose != Open || loaded.WindowMs != 100 {
		t.Errorf("LoadJSON returned %+v", loaded)
	}
}
