package dynamo

import (
	"io"
	"log/slog"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Logger returns the package-wide structured logger.
func Logger() *slog.Logger { return logger }

// SetLogger replaces the package-wide logger. A nil logger discards output.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = l
}
