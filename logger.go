// Package rotolog implements a process-embedded, leveled file logger
// with size-based rotation and bounded backup retention.
//
// The package is built around independent logger instances: each
// instance owns one active log file, rotates it into a numbered backup
// chain when it outgrows a size threshold, and keeps at most a
// configured number of backups. Several differently-configured
// instances (for example an "app" log and an "access" log) can coexist
// in one process, addressed by name through the pkg/log registry.
//
// Two delivery modes are supported:
//   - Synchronous: the caller holds a lock for the duration of the file
//     write; write errors surface to the caller.
//   - Asynchronous: lines are copied into a bounded queue consumed by a
//     single background goroutine; enqueueing never blocks beyond the
//     configured overflow strategy, and dropped lines are counted.
//
// The core Logger interface defined here is implemented by the adapter
// package. Concrete usage:
//
//	cfg := rotolog.NewConfigBuilder().
//		WithDirectory("/var/log/myapp").
//		WithFileName("app").
//		WithMaxSize(20 * 1024 * 1024).
//		WithMaxFiles(5).
//		Build()
//
//	logger, err := adapter.New(*cfg)
//	if err != nil {
//		panic(err)
//	}
//	defer logger.Close()
//
//	logger.Info("application started")
//
// Always close (or at least Sync) a logger before process exit so the
// async queue is drained.
package rotolog

// Level represents the severity of a log message.
//
// Levels are ordered by ascending severity; a logger configured with a
// minimum level emits only messages at or above it. There is no
// distinct fatal level: Fatal calls are rendered at ErrorLevel with a
// literal "FATAL:" message prefix.
type Level uint8

const (
	// DebugLevel represents debugging information.
	DebugLevel Level = iota
	// InfoLevel represents general operational information.
	InfoLevel
	// WarnLevel represents warning messages.
	WarnLevel
	// ErrorLevel represents error messages.
	ErrorLevel
)

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the given Level is a valid log level.
func (l Level) IsValid() bool {
	return l <= ErrorLevel
}

// QueueStats is a snapshot of an asynchronous logger's queue counters.
// All counters are zero for synchronous loggers.
type QueueStats struct {
	// Enqueued is the number of lines accepted into the queue.
	Enqueued uint64
	// Processed is the number of lines written to the sink.
	Processed uint64
	// Dropped is the number of lines discarded by the overflow policy
	// or after a failed write.
	Dropped uint64
	// WriteErrors is the number of failed sink writes.
	WriteErrors uint64
	// QueueDepth is the number of lines currently buffered.
	QueueDepth int
}

// Logger defines the interface for a single log instance.
//
// A Logger handle is safe for concurrent use and is shared, not
// copied: every reference obtained for the same instance points at the
// same underlying file sink and queue.
type Logger interface {
	// Log writes a message at the given level, subject to the
	// instance's minimum-level filter. In synchronous mode a write
	// failure is returned to the caller; in asynchronous mode the
	// only possible error is a queue overflow, since the write itself
	// happens after Log returns.
	Log(level Level, msg string) error

	// Debug logs a message at debug level.
	Debug(msg string)
	// Info logs a message at info level.
	Info(msg string)
	// Warn logs a message at warn level.
	Warn(msg string)
	// Error logs a message at error level.
	Error(msg string)

	// Fatal writes an error-level line prefixed with "FATAL:",
	// regardless of the minimum level, then terminates the process
	// once the line has been written (sync mode) or the queue has
	// been flushed best-effort (async mode).
	Fatal(msg string)

	FormattedLogger

	// Name returns the instance name the logger was registered under.
	Name() string
	// GetLevel returns the current minimum level.
	GetLevel() Level
	// SetLevel sets the minimum level.
	SetLevel(level Level)
	// Stats returns queue counters for async instances.
	Stats() QueueStats
	// Rotate forces a rotation of the active file regardless of size.
	Rotate() error
	// Sync flushes buffered lines (and drains the async queue) to disk.
	Sync() error
	// Close drains pending lines and releases the file handle.
	Close() error
}

// FormattedLogger defines the interface for logging formatted messages.
type FormattedLogger interface {
	// Debugf logs a formatted message at debug level.
	Debugf(format string, args ...any)
	// Infof logs a formatted message at info level.
	Infof(format string, args ...any)
	// Warnf logs a formatted message at warn level.
	Warnf(format string, args ...any)
	// Errorf logs a formatted message at error level.
	Errorf(format string, args ...any)
	// Fatalf logs a formatted message through Fatal.
	Fatalf(format string, args ...any)
}
