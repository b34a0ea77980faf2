package engine

import "log/slog"

// LoggingObserver logs search lifecycle events using structured logging
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a new logging observer.
// A nil logger falls back to slog.Default().
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	switch event.Type {
	case EventSearchStart:
		lo.logger.Debug("search_lifecycle",
			"event", event.Type,
			"search_id", event.SearchID,
			"query", event.Query,
		)
	case EventSearchEnd:
		lo.logger.Info("search_lifecycle",
			"event", event.Type,
			"search_id", event.SearchID,
			"query", event.Query,
			"outcome", event.Outcome,
			"matches", event.Matches,
			"scanned", event.Scanned,
			"duration", event.Duration,
		)
	}
}
