package audio

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// chunkSize is the number of sample frames requested per decoder read.
const chunkSize = 8192

// Track is a fully decoded audio clip, downmixed to mono for playback. It is
// not modified after Load.
type Track struct {
	// Path is the file the user supplied
	Path string
	// DecodedPath is the file actually decoded, the cached WAV for
	// transcoded inputs
	DecodedPath string

	Samples []float64 // Mono, normalised to [-1, 1]

	// Power holds the mean square across channels for each frame, so
	// loudness counts every channel sample rather than the downmix. Nil for
	// mono sources, where it equals the square of Samples.
	Power []float64

	SampleRate int
	Channels   int // Channel count of the decoded source before downmix
}

// DurationMs returns the track length in whole milliseconds.
func (t *Track) DurationMs() int64 {
	if t.SampleRate <= 0 {
		return 0
	}
	return int64(len(t.Samples)) * 1000 / int64(t.SampleRate)
}

// Duration returns the track length.
func (t *Track) Duration() time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(t.Samples)) * time.Second / time.Duration(t.SampleRate)
}

// LoadOptions controls how non-native containers are transcoded.
type LoadOptions struct {
	FFmpegPath string
	CacheDir   string
}

// Load decodes path into a Track. WAV, MP3 and FLAC are decoded natively;
// anything else, including non-PCM WAV, is converted to a cached WAV through
// ffmpeg first.
func Load(ctx context.Context, path string, opts LoadOptions) (*Track, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &AudioDecodeError{Path: path, Stage: StageOpen, Err: err}
	}

	var (
		track *Track
		err   error
	)
	if IsNative(path) {
		track, err = DecodeFile(path)
		if err != nil && !errors.Is(err, ErrUnsupportedWAV) {
			return nil, err
		}
		if err != nil {
			log.Debug("converting WAV through ffmpeg", "path", path, "reason", err)
		}
	}

	if track == nil {
		tc := &Transcoder{FFmpegPath: opts.FFmpegPath, CacheDir: opts.CacheDir}
		wavPath, err := tc.Convert(ctx, path)
		if err != nil {
			return nil, err
		}
		track, err = DecodeFile(wavPath)
		if err != nil {
			var decodeErr *AudioDecodeError
			if errors.As(err, &decodeErr) {
				decodeErr.Path = path
			}
			return nil, err
		}
	}
	track.Path = path

	log.Debug("decoded audio",
		"path", path,
		"decoded", track.DecodedPath,
		"sampleRate", track.SampleRate,
		"channels", track.Channels,
		"duration", track.Duration())
	return track, nil
}

// DecodeFile decodes a natively supported file into a Track.
func DecodeFile(path string) (*Track, error) {
	dec, err := NewDecoder(path)
	if err != nil {
		return nil, &AudioDecodeError{Path: path, Stage: StageOpen, Err: err}
	}
	defer dec.Close()

	track, err := ReadAll(dec)
	if err != nil {
		return nil, &AudioDecodeError{Path: path, Stage: StageDecode, Err: err}
	}
	track.Path = path
	track.DecodedPath = path
	return track, nil
}

// ReadAll drains dec into a Track.
func ReadAll(dec Decoder) (*Track, error) {
	track := &Track{
		SampleRate: dec.SampleRate(),
		Channels:   dec.NumChannels(),
	}
	if track.SampleRate <= 0 {
		return nil, errors.New("invalid sample rate")
	}
	if track.Channels <= 0 {
		return nil, errors.New("invalid channel count")
	}

	for {
		chunk, err := dec.ReadChunk(chunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		track.append(chunk)
	}

	if len(track.Samples) == 0 {
		return nil, ErrNoAudio
	}
	return track, nil
}

// append downmixes one chunk of interleaved samples onto the track.
func (t *Track) append(chunk []float64) {
	if t.Channels == 1 {
		t.Samples = append(t.Samples, chunk...)
		return
	}

	n := float64(t.Channels)
	for i := 0; i+t.Channels <= len(chunk); i += t.Channels {
		var sum, squares float64
		for _, s := range chunk[i : i+t.Channels] {
			sum += s
			squares += s * s
		}
		t.Samples = append(t.Samples, sum/n)
		t.Power = append(t.Power, squares/n)
	}
}

// RMS returns the root-mean-square amplitude of frames [start, end) over
// every channel sample. Frames past the end of the track count as silence.
func (t *Track) RMS(start, end int) float64 {
	length := end - start
	if length <= 0 || start < 0 || start >= len(t.Samples) {
		return 0
	}
	end = min(end, len(t.Samples))

	var sum float64
	if t.Power != nil {
		for _, p := range t.Power[start:end] {
			sum += p
		}
	} else {
		for _, s := range t.Samples[start:end] {
			sum += s * s
		}
	}
	return math.Sqrt(sum / float64(length))
}
