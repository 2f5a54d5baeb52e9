package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Decoder streams float64 samples out of an audio file.
type Decoder interface {
	// ReadChunk reads up to numFrames sample frames, interleaved across
	// NumChannels and normalised to [-1, 1]. A chunk always holds whole
	// frames. Returns io.EOF once the stream is exhausted.
	ReadChunk(numFrames int) ([]float64, error)

	// SampleRate returns the audio sample rate in Hz
	SampleRate() int

	// NumChannels returns the number of channels in the source (1=mono, 2=stereo)
	NumChannels() int

	// Close closes the decoder and releases resources
	Close() error
}

// nativeDecoders maps lower-case file extensions to their decoder constructor.
var nativeDecoders = map[string]func(string) (Decoder, error){
	".wav":  func(p string) (Decoder, error) { return NewWAVDecoder(p) },
	".wave": func(p string) (Decoder, error) { return NewWAVDecoder(p) },
	".mp3":  func(p string) (Decoder, error) { return NewMP3Decoder(p) },
	".flac": func(p string) (Decoder, error) { return NewFLACDecoder(p) },
}

// IsNative reports whether path can be decoded without ffmpeg.
func IsNative(path string) bool {
	_, ok := nativeDecoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsWAV reports whether path has a WAV extension.
func IsWAV(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".wav" || ext == ".wave"
}

// NewDecoder opens path with the decoder matching its extension.
func NewDecoder(path string) (Decoder, error) {
	open, ok := nativeDecoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("no native decoder for %q", filepath.Ext(path))
	}
	return open(path)
}
