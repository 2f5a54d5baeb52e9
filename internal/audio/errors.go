package audio

import (
	"errors"
	"fmt"
)

// Decode stages reported by AudioDecodeError.
const (
	StageOpen      = "open"
	StageTranscode = "transcode"
	StageDecode    = "decode"
)

var (
	// ErrNoAudio is returned when a file decodes to zero samples.
	ErrNoAudio = errors.New("no audio data in file")

	// ErrUnsupportedWAV is returned for WAV files that are not integer PCM,
	// such as IEEE float. Load converts those through ffmpeg.
	ErrUnsupportedWAV = errors.New("WAV encoding is not integer PCM")
)

// AudioDecodeError reports a failure to turn an input file into samples.
type AudioDecodeError struct {
	Path  string
	Stage string
	Err   error
}

func (e *AudioDecodeError) Error() string {
	return fmt.Sprintf("audio %s failed for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *AudioDecodeError) Unwrap() error {
	return e.Err
}
