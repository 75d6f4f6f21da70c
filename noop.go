package rotolog

// NoopLogger is a logger that does nothing. It stands in wherever a
// Logger is required but no file output is wanted, for example in
// tests or while wiring is still optional.
type NoopLogger struct {
	level Level
}

// NewNoop creates a new NoopLogger.
func NewNoop() Logger {
	return &NoopLogger{
		level: InfoLevel,
	}
}

// Ensure NoopLogger implements Logger interface.
var _ Logger = (*NoopLogger)(nil)

// Log discards the message.
func (*NoopLogger) Log(_ Level, _ string) error { return nil }

// Debug discards the message.
func (*NoopLogger) Debug(_ string) {}

// Info discards the message.
func (*NoopLogger) Info(_ string) {}

// Warn discards the message.
func (*NoopLogger) Warn(_ string) {}

// Error discards the message.
func (*NoopLogger) Error(_ string) {}

// Fatal discards the message and, unlike a real logger, returns.
func (*NoopLogger) Fatal(_ string) {}

// Debugf discards the message.
func (*NoopLogger) Debugf(_ string, _ ...any) {}

// Infof discards the message.
func (*NoopLogger) Infof(_ string, _ ...any) {}

// Warnf discards the message.
func (*NoopLogger) Warnf(_ string, _ ...any) {}

// Errorf discards the message.
func (*NoopLogger) Errorf(_ string, _ ...any) {}

// Fatalf discards the message and returns.
func (*NoopLogger) Fatalf(_ string, _ ...any) {}

// Name identifies the no-op instance.
func (*NoopLogger) Name() string { return "noop" }

// GetLevel returns the configured level.
func (n *NoopLogger) GetLevel() Level { return n.level }

// SetLevel records the level; it filters nothing.
func (n *NoopLogger) SetLevel(level Level) {
	if level.IsValid() {
		n.level = level
	}
}

// Stats reports empty counters.
func (*NoopLogger) Stats() QueueStats { return QueueStats{} }

// Rotate does nothing.
func (*NoopLogger) Rotate() error { return nil }

// Sync does nothing.
func (*NoopLogger) Sync() error { return nil }

// Close does nothing.
func (*NoopLogger) Close() error { return nil }
