package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

func TestLastLine(t *testing.T) {
	testCases := []struct {
		name   string
		stderr string
		want   string
	}{
		{name: "empty", stderr: "", want: ""},
		{name: "single line", stderr: "boom", want: "boom"},
		{name: "trailing blank lines", stderr: "first\nsecond\n\n  \n", want: "second"},
		{name: "indented", stderr: "a\n   pipe:0: Invalid data found  ", want: "pipe:0: Invalid data found"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LastLine(tc.stderr); got != tc.want {
				t.Errorf("LastLine(%q) = %q, want %q", tc.stderr, got, tc.want)
			}
		})
	}
}

func TestLastLineTruncates(t *testing.T) {
	long := strings.Repeat("x", maxErrorLineLength+50)
	got := LastLine(long)
	if len(got) != maxErrorLineLength+3 {
		t.Errorf("truncated length = %d, want %d", len(got), maxErrorLineLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated line %q should end with ...", got)
	}
}

func TestRunErrorUnwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &RunError{Stderr: "line one\nNo such file or directory\n", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("RunError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "No such file or directory") {
		t.Errorf("Error() = %q, want last stderr line included", err.Error())
	}
}

func TestResolvePathCustomMissing(t *testing.T) {
	_, err := ResolvePath("/nonexistent/ffmpeg-binary")
	if err == nil {
		t.Fatal("expected error for missing custom path")
	}
}

func TestRunReportsFailure(t *testing.T) {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not available")
	}

	err = Run(context.Background(), path, []string{"-hide_banner", "-i", "/nonexistent/input.wav", "-f", "null", "-"})
	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("Run() error = %v, want *RunError", err)
	}
	if runErr.Stderr == "" {
		t.Error("expected stderr to be captured")
	}
	t.Logf("ffmpeg reported: %s", LastLine(runErr.Stderr))
}
