package player

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/linuxmatters/jawbone/internal/audio"
)

func TestTaskWaitReturnsResult(t *testing.T) {
	want := errors.New("device lost")
	task := Start(context.Background(), func(ctx context.Context) error {
		return want
	})

	if err := task.Wait(); !errors.Is(err, want) {
		t.Errorf("Wait() = %v, want %v", err, want)
	}
	select {
	case <-task.Done():
	default:
		t.Error("Done() should be closed after Wait returns")
	}
}

func TestTaskCancel(t *testing.T) {
	started := make(chan struct{})
	task := Start(context.Background(), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	<-started
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not finish after Cancel")
	}
	if err := task.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want context.Canceled", err)
	}
}

func TestTaskParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Start(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	cancel()
	if err := task.Wait(); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want context.Canceled", err)
	}
}

func TestSilentPlayerTiming(t *testing.T) {
	// 50ms of audio
	track := &audio.Track{Samples: make([]float64, 400), SampleRate: 8000}

	start := time.Now()
	task, err := Silent{}.Play(context.Background(), track)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if err := task.Wait(); err != nil {
		t.Errorf("Wait() = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("silent playback finished after %v, want at least 50ms", elapsed)
	}
}

func TestSilentPlayerStop(t *testing.T) {
	track := &audio.Track{Samples: make([]float64, 8000*60), SampleRate: 8000}

	task, err := Silent{}.Play(context.Background(), track)
	if err != nil {
		t.Fatal(err)
	}
	if err := task.Stop(); !errors.Is(err, context.Canceled) {
		t.Errorf("Stop() = %v, want context.Canceled", err)
	}
}

func TestPCM16(t *testing.T) {
	testCases := []struct {
		sample float64
		want   int16
	}{
		{sample: 0, want: 0},
		{sample: 1, want: 32767},
		{sample: -1, want: -32767},
		{sample: 0.5, want: 16384},
		{sample: 2, want: 32767},
		{sample: -2, want: -32768},
	}

	samples := make([]float64, len(testCases))
	for i, tc := range testCases {
		samples[i] = tc.sample
	}
	pcm := PCM16(samples)
	if len(pcm) != len(samples)*2 {
		t.Fatalf("PCM16 produced %d bytes, want %d", len(pcm), len(samples)*2)
	}

	for i, tc := range testCases {
		got := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		if got != tc.want {
			t.Errorf("sample %v -> %d, want %d", tc.sample, got, tc.want)
		}
	}
}
