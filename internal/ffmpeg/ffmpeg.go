// Package ffmpeg runs the external ffmpeg binary used for transcoding,
// encoding and muxing.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// maxErrorLineLength caps the stderr excerpt carried in errors.
const maxErrorLineLength = 200

// ErrNotFound is returned when no usable ffmpeg binary can be located.
var ErrNotFound = errors.New("ffmpeg not found in PATH")

// RunError reports an ffmpeg invocation that exited unsuccessfully.
type RunError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	if line := LastLine(e.Stderr); line != "" {
		return fmt.Sprintf("ffmpeg failed: %v: %s", e.Err, line)
	}
	return fmt.Sprintf("ffmpeg failed: %v", e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// ResolvePath returns the ffmpeg binary to use. A non-empty customPath must
// resolve via exec.LookPath; otherwise "ffmpeg" is searched for in PATH.
func ResolvePath(customPath string) (string, error) {
	name := "ffmpeg"
	if customPath != "" {
		name = customPath
	}
	path, err := exec.LookPath(name)
	if err != nil {
		if customPath != "" {
			return "", fmt.Errorf("ffmpeg binary %q: %w", customPath, err)
		}
		return "", ErrNotFound
	}
	return path, nil
}

// Run executes ffmpeg to completion, capturing stderr for diagnostics.
func Run(ctx context.Context, ffmpegPath string, args []string) error {
	log.Debug("running ffmpeg", "path", ffmpegPath, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &RunError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// Process is a running ffmpeg subprocess fed through stdin.
type Process struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	args   []string
}

// Start launches ffmpeg with a stdin pipe. Cancelling ctx kills the process.
func Start(ctx context.Context, ffmpegPath string, args []string) (*Process, error) {
	log.Debug("starting ffmpeg", "path", ffmpegPath, "args", strings.Join(args, " "))

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		cancel()
		if closeErr := stdinPipe.Close(); closeErr != nil {
			log.Warn("failed to close stdin pipe", "error", closeErr)
		}
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	return &Process{
		cmd:    cmd,
		cancel: cancel,
		stdin:  stdinPipe,
		stderr: &stderr,
		args:   args,
	}, nil
}

// Write sends data to the process's stdin.
func (p *Process) Write(b []byte) (int, error) {
	return p.stdin.Write(b)
}

// Wait closes stdin and waits for ffmpeg to exit.
func (p *Process) Wait() error {
	defer p.cancel()

	closeErr := p.stdin.Close()
	if err := p.cmd.Wait(); err != nil {
		return &RunError{Args: p.args, Stderr: p.stderr.String(), Err: err}
	}
	if closeErr != nil && !errors.Is(closeErr, io.ErrClosedPipe) {
		return fmt.Errorf("close ffmpeg stdin: %w", closeErr)
	}
	return nil
}

// Kill aborts the process without waiting for a clean exit.
func (p *Process) Kill() {
	p.cancel()
	_ = p.stdin.Close()
	_ = p.cmd.Wait()
}

// LastLine extracts the last non-empty line from ffmpeg's stderr output.
func LastLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" {
			if len(line) > maxErrorLineLength {
				return line[:maxErrorLineLength] + "..."
			}
			return line
		}
	}
	return ""
}
