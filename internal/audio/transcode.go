package audio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/linuxmatters/jawbone/internal/config"
	"github.com/linuxmatters/jawbone/internal/ffmpeg"
)

// Transcoder converts containers without a native decoder into 16-bit PCM
// WAV using the external ffmpeg binary, keeping the source channels. Results are cached on disk, keyed by
// the source path, size and modification time.
type Transcoder struct {
	FFmpegPath string
	CacheDir   string
	SampleRate int
}

// DefaultCacheDir returns the per-user cache directory for transcoded audio.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, config.CacheDirName)
}

// CachePath returns where the transcoded WAV for src lives. It changes
// whenever src is replaced or modified.
func (t *Transcoder) CachePath(src string) (string, error) {
	abs, err := filepath.Abs(src)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write([]byte(abs))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(info.Size(), 10)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(info.ModTime().UnixNano(), 10)))
	key := hex.EncodeToString(h.Sum(nil))[:16]

	stem := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	return filepath.Join(t.cacheDir(), fmt.Sprintf("%s-%s.wav", stem, key)), nil
}

// EnsureWAV returns src unchanged when it is already a WAV file, otherwise
// the path of a cached transcode, creating it if needed.
func (t *Transcoder) EnsureWAV(ctx context.Context, src string) (string, error) {
	if IsWAV(src) {
		if _, err := os.Stat(src); err != nil {
			return "", &AudioDecodeError{Path: src, Stage: StageOpen, Err: err}
		}
		return src, nil
	}
	return t.Convert(ctx, src)
}

// Convert returns the path of a cached 16-bit PCM WAV copy of src, creating
// it if needed. Unlike EnsureWAV it also converts WAV input.
func (t *Transcoder) Convert(ctx context.Context, src string) (string, error) {
	cached, err := t.CachePath(src)
	if err != nil {
		return "", &AudioDecodeError{Path: src, Stage: StageOpen, Err: err}
	}

	if info, err := os.Stat(cached); err == nil && info.Size() > 0 {
		log.Debug("reusing transcoded audio", "src", src, "cache", cached)
		return cached, nil
	}

	if err := t.transcode(ctx, src, cached); err != nil {
		return "", &AudioDecodeError{Path: src, Stage: StageTranscode, Err: err}
	}
	log.Debug("transcoded audio", "src", src, "cache", cached)
	return cached, nil
}

func (t *Transcoder) transcode(ctx context.Context, src, dst string) error {
	ffmpegPath, err := ffmpeg.ResolvePath(t.FFmpegPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	// ffmpeg picks the muxer from the extension, so the partial file keeps .wav
	tmp := strings.TrimSuffix(dst, ".wav") + ".partial.wav"
	if err := ffmpeg.Run(ctx, ffmpegPath, TranscodeArgs(src, tmp, t.sampleRate())); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store transcoded audio: %w", err)
	}
	return nil
}

// TranscodeArgs builds the ffmpeg arguments converting src to 16-bit PCM WAV.
func TranscodeArgs(src, dst string, sampleRate int) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", src,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		dst,
	}
}

func (t *Transcoder) cacheDir() string {
	if t.CacheDir != "" {
		return t.CacheDir
	}
	return DefaultCacheDir()
}

func (t *Transcoder) sampleRate() int {
	if t.SampleRate > 0 {
		return t.SampleRate
	}
	return config.TranscodeSampleRate
}
