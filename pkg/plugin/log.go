package plugin

import (
	"log/slog"
	"os"
	"sync"
)

var setupOnce sync.Once

// SetupLogging installs a text-handler slog logger at the given level as
// the process-wide default. It runs at most once per process regardless of
// how many times Init is called, matching §4.6's "idempotently installs
// logging".
func SetupLogging(level slog.Level) {
	setupOnce.Do(func() {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
	})
}
