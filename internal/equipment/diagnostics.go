package equipment

import "log/slog"

// Diagnostics receives structured events about data repairs and move
// failures. Implementations must not propagate their own failures.
type Diagnostics interface {
	Event(name string, fields map[string]any)
}

// SlogDiagnostics logs diagnostic events through slog.
type SlogDiagnostics struct {
	Logger *slog.Logger
}

// Event logs one event at WARN level. Logging failures are swallowed.
func (d *SlogDiagnostics) Event(name string, fields map[string]any) {
	defer func() { recover() }()

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	logger.Warn(name, attrs...)
}

// NopDiagnostics discards all events.
type NopDiagnostics struct{}

func (NopDiagnostics) Event(string, map[string]any) {}
