package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM = 1

	// 8-bit WAV samples are unsigned with silence at 128
	wav8BitBias = 128
)

// WAVDecoder implements Decoder for integer PCM WAV files
type WAVDecoder struct {
	decoder    *wav.Decoder
	file       *os.File
	sampleRate int
	bitDepth   int
	numChans   int
	buf        *audio.IntBuffer
}

// NewWAVDecoder creates a new WAV decoder
func NewWAVDecoder(filename string) (*WAVDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, errors.New("invalid WAV file")
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		f.Close()
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedWAV, decoder.WavAudioFormat)
	}

	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to seek to PCM data: %w", err)
	}

	if decoder.NumChans == 0 || decoder.BitDepth == 0 {
		f.Close()
		return nil, fmt.Errorf("unsupported WAV format: %d channels, %d bits", decoder.NumChans, decoder.BitDepth)
	}

	return &WAVDecoder{
		decoder:    decoder,
		file:       f,
		sampleRate: int(decoder.SampleRate),
		bitDepth:   int(decoder.BitDepth),
		numChans:   int(decoder.NumChans),
	}, nil
}

// ReadChunk reads the next chunk of interleaved samples
func (d *WAVDecoder) ReadChunk(numFrames int) ([]float64, error) {
	bufSize := numFrames * d.numChans
	if d.buf == nil || len(d.buf.Data) != bufSize {
		d.buf = &audio.IntBuffer{
			Data: make([]int, bufSize),
			Format: &audio.Format{
				NumChannels: d.numChans,
				SampleRate:  d.sampleRate,
			},
		}
	}

	n, err := d.decoder.PCMBuffer(d.buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	// A truncated file can end mid-frame
	n -= n % d.numChans
	if n == 0 {
		return nil, io.EOF
	}

	return normalisePCM(d.buf.Data[:n], d.bitDepth), nil
}

// SampleRate returns the sample rate
func (d *WAVDecoder) SampleRate() int {
	return d.sampleRate
}

// NumChannels returns the number of audio channels
func (d *WAVDecoder) NumChannels() int {
	return d.numChans
}

// Close closes the decoder and releases resources
func (d *WAVDecoder) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// normalisePCM scales integer samples of the given bit depth to [-1, 1].
func normalisePCM(data []int, bitDepth int) []float64 {
	samples := make([]float64, len(data))
	if bitDepth == 8 {
		for i, s := range data {
			samples[i] = float64(s-wav8BitBias) / wav8BitBias
		}
		return samples
	}

	maxVal := float64(audio.IntMaxSignedValue(bitDepth))
	for i, s := range data {
		samples[i] = float64(s) / maxVal
	}
	return samples
}
