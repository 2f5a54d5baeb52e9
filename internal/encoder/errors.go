package encoder

import (
	"fmt"
)

// VideoWriteError reports a failure while producing the silent video.
// Frame is -1 when the failure was not tied to a particular frame.
type VideoWriteError struct {
	Path  string
	Frame int
	Err   error
}

func (e *VideoWriteError) Error() string {
	if e.Frame >= 0 {
		return fmt.Sprintf("writing frame %d to %s: %v", e.Frame, e.Path, e.Err)
	}
	return fmt.Sprintf("writing video %s: %v", e.Path, e.Err)
}

func (e *VideoWriteError) Unwrap() error {
	return e.Err
}

// MuxError reports a failed attempt to attach audio to the silent video.
type MuxError struct {
	Video  string
	Audio  string
	Output string
	Err    error
}

func (e *MuxError) Error() string {
	return fmt.Sprintf("muxing %s with %s into %s: %v", e.Video, e.Audio, e.Output, e.Err)
}

func (e *MuxError) Unwrap() error {
	return e.Err
}
