package llogs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/inkpress/metal/env"
)

// FilesLogs installs the default slog logger over a dated file such as
// storage/logs/logs_2024_03_10.log. Production writes JSON to the file only;
// other environments write text and mirror it to stderr.
type FilesLogs struct {
	path string
	file *os.File
}

func MakeFilesLogs(environment *env.Environment) (Driver, error) {
	path := LogPath(environment.Logs, time.Now())

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return FilesLogs{}, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return FilesLogs{}, err
	}

	opts := &slog.HandlerOptions{Level: environment.Logs.SlogLevel()}

	var handler slog.Handler
	if environment.App.IsProduction() {
		handler = slog.NewJSONHandler(file, opts)
	} else {
		handler = slog.NewTextHandler(io.MultiWriter(file, os.Stderr), opts)
	}

	slog.SetDefault(slog.New(ContextHandler{Handler: handler}))

	return FilesLogs{path: path, file: file}, nil
}

// LogPath fills the %s in the configured directory pattern with the date.
func LogPath(logs env.LogsEnvironment, now time.Time) string {
	return fmt.Sprintf(logs.Dir, now.UTC().Format(logs.DateFormat))
}

func (f FilesLogs) Path() string {
	return f.path
}

func (f FilesLogs) Close() bool {
	if f.file == nil {
		return true
	}

	if err := f.file.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "could not close log file %s: %v\n", f.path, err)

		return false
	}

	return true
}
