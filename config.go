package rotolog

import (
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"
)

const (
	// DefaultLevel is the default minimum logging level.
	DefaultLevel = InfoLevel
	// DefaultDirectory is the default log directory, relative to the
	// working directory.
	DefaultDirectory = "logs"
	// DefaultFileName is the default base name of the active log file.
	DefaultFileName = "record"
	// DefaultInstanceName is the registry name used when none is set.
	DefaultInstanceName = "default"
	// DefaultMaxSizeBytes is the default rotation threshold.
	DefaultMaxSizeBytes = 20 * 1024 * 1024
	// DefaultMaxFiles is the default number of retained backups.
	DefaultMaxFiles = 5
	// DefaultQueueSize is the default async queue capacity.
	DefaultQueueSize = 1024
	// DefaultDrainTimeout bounds how long Sync and Close wait for the
	// async queue to empty.
	DefaultDrainTimeout = 5 * time.Second
	// LogFilePermissions are the default file permissions for log files.
	LogFilePermissions = 0o644
)

// OverflowStrategy defines how the async queue behaves when full.
type OverflowStrategy uint8

const (
	// OverflowDropNewest drops the incoming line when the queue is
	// full and increments the dropped counter.
	OverflowDropNewest OverflowStrategy = iota
	// OverflowDropOldest discards the oldest buffered line to make
	// room for the new one.
	OverflowDropOldest
	// OverflowBlock blocks the producer until queue space frees up or
	// the logger shuts down.
	OverflowBlock
)

// IsValid reports whether the strategy value is recognised.
func (s OverflowStrategy) IsValid() bool {
	switch s {
	case OverflowDropNewest, OverflowDropOldest, OverflowBlock:
		return true
	default:
		return false
	}
}

// Config holds the configuration for one logger instance. It is
// consumed read-only at construction; changing it afterwards has no
// effect on a running instance.
type Config struct {
	// InstanceName identifies the instance in the registry.
	InstanceName string
	// Directory is the directory the log files live in. It is created
	// at construction if absent.
	Directory string
	// FileName is the base name: the active file is {FileName}.log and
	// backups are {FileName}.{N}.log.
	FileName string
	// Level is the minimum level to emit.
	Level Level
	// MaxSizeBytes is the rotation threshold. A write that would push
	// the active file past it triggers rotation first; a single line
	// larger than the threshold is still written in full.
	MaxSizeBytes int64
	// MaxFiles is the number of rotated backups retained.
	MaxFiles int
	// Async selects queued delivery through a background goroutine.
	Async bool
	// QueueSize is the async queue capacity in lines.
	QueueSize int
	// Overflow selects the async behaviour when the queue is full.
	Overflow OverflowStrategy
	// DrainTimeout bounds queue draining during Sync and Close.
	DrainTimeout time.Duration
	// InstantFlush forces an fsync after every write before the write
	// call returns.
	InstantFlush bool
	// EchoConsole mirrors every emitted line to stderr, with level
	// colors when stderr is a terminal.
	EchoConsole bool
	// ProcessScopedDir nests Directory under the executable base name,
	// so several binaries sharing one log root stay separated.
	ProcessScopedDir bool
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		InstanceName: DefaultInstanceName,
		Directory:    DefaultDirectory,
		FileName:     DefaultFileName,
		Level:        DefaultLevel,
		MaxSizeBytes: DefaultMaxSizeBytes,
		MaxFiles:     DefaultMaxFiles,
		Async:        true,
		QueueSize:    DefaultQueueSize,
		Overflow:     OverflowDropNewest,
		DrainTimeout: DefaultDrainTimeout,
	}
}

// Validate checks the configuration for values that would break the
// write path. It is called by the adapter before any file is touched,
// so invalid configurations never reach the sink.
func (c Config) Validate() error {
	if strings.TrimSpace(c.InstanceName) == "" {
		return ewrap.New("instance name cannot be empty")
	}

	if strings.TrimSpace(c.Directory) == "" {
		return ewrap.New("log directory cannot be empty")
	}

	if strings.TrimSpace(c.FileName) == "" {
		return ewrap.New("log file name cannot be empty")
	}

	if strings.ContainsAny(c.FileName, `/\`) {
		return ewrap.New("log file name must not contain path separators").
			WithMetadata("file_name", c.FileName)
	}

	if !c.Level.IsValid() {
		return ewrap.New("invalid minimum level").
			WithMetadata("level", int(c.Level))
	}

	if c.MaxSizeBytes <= 0 {
		return ewrap.New("max size must be positive").
			WithMetadata("max_size_bytes", c.MaxSizeBytes)
	}

	if c.MaxFiles < 1 {
		return ewrap.New("max files must be at least 1").
			WithMetadata("max_files", c.MaxFiles)
	}

	if c.Async {
		if c.QueueSize <= 0 {
			return ewrap.New("queue size must be positive in async mode").
				WithMetadata("queue_size", c.QueueSize)
		}

		if !c.Overflow.IsValid() {
			return ewrap.New("invalid overflow strategy").
				WithMetadata("overflow", int(c.Overflow))
		}

		if c.DrainTimeout <= 0 {
			return ewrap.New("drain timeout must be positive in async mode").
				WithMetadata("drain_timeout", c.DrainTimeout.String())
		}
	}

	return nil
}

// ParseLevel parses the given level string case-insensitively.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return DefaultLevel, ewrap.New("invalid log level: " + level)
	}
}
