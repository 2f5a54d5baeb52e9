package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// InitLogging sets the global logger level and destination. Diagnostics go
// to stderr unless logFile is set, which keeps them from tearing the
// full-screen UI. The returned function closes the log file.
func InitLogging(verbose bool, logFile string) (func() error, error) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	var out io.Writer = os.Stderr
	closer := func() error { return nil }
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closer, fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
		closer = file.Close
	}

	log.SetDefault(log.NewWithOptions(out, log.Options{
		ReportTimestamp: logFile != "",
		TimeFormat:      time.RFC3339,
		Level:           level,
		Prefix:          "jawbone",
	}))

	log.Debug("logging initialised", "level", level.String(), "file", logFile)
	return closer, nil
}
