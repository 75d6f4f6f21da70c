package rotolog

import "time"

// ConfigBuilder provides a fluent API for constructing logger
// configurations. It allows for more readable and chainable setup.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a new builder seeded with the defaults.
// This is the entry point for the fluent configuration API.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: DefaultConfig()}
}

// WithInstanceName sets the registry name for the instance.
// Example: builder.WithInstanceName("access").
func (b *ConfigBuilder) WithInstanceName(name string) *ConfigBuilder {
	b.config.InstanceName = name

	return b
}

// WithDirectory sets the directory log files are written to.
// Example: builder.WithDirectory("/var/log/myapp").
func (b *ConfigBuilder) WithDirectory(dir string) *ConfigBuilder {
	b.config.Directory = dir

	return b
}

// WithFileName sets the base file name; the active file becomes
// {name}.log.
func (b *ConfigBuilder) WithFileName(name string) *ConfigBuilder {
	b.config.FileName = name

	return b
}

// WithLevel sets the minimum logging level.
// Example: builder.WithLevel(rotolog.WarnLevel).
func (b *ConfigBuilder) WithLevel(level Level) *ConfigBuilder {
	b.config.Level = level

	return b
}

// WithDebugLevel is a convenience method for WithLevel(DebugLevel).
func (b *ConfigBuilder) WithDebugLevel() *ConfigBuilder {
	return b.WithLevel(DebugLevel)
}

// WithInfoLevel is a convenience method for WithLevel(InfoLevel).
func (b *ConfigBuilder) WithInfoLevel() *ConfigBuilder {
	return b.WithLevel(InfoLevel)
}

// WithMaxSize sets the rotation threshold in bytes.
func (b *ConfigBuilder) WithMaxSize(maxSizeBytes int64) *ConfigBuilder {
	b.config.MaxSizeBytes = maxSizeBytes

	return b
}

// WithMaxFiles sets the number of rotated backups to retain.
func (b *ConfigBuilder) WithMaxFiles(count int) *ConfigBuilder {
	b.config.MaxFiles = count

	return b
}

// WithAsync enables or disables queued delivery.
func (b *ConfigBuilder) WithAsync(enable bool) *ConfigBuilder {
	b.config.Async = enable

	return b
}

// WithSync is a convenience method for WithAsync(false).
func (b *ConfigBuilder) WithSync() *ConfigBuilder {
	return b.WithAsync(false)
}

// WithQueueSize sets the async queue capacity in lines.
// Example: builder.WithQueueSize(4096).
func (b *ConfigBuilder) WithQueueSize(size int) *ConfigBuilder {
	b.config.QueueSize = size

	return b
}

// WithOverflowStrategy sets the behaviour when the async queue is full.
func (b *ConfigBuilder) WithOverflowStrategy(strategy OverflowStrategy) *ConfigBuilder {
	b.config.Overflow = strategy

	return b
}

// WithDrainTimeout bounds how long Sync and Close wait for the async
// queue to empty.
func (b *ConfigBuilder) WithDrainTimeout(timeout time.Duration) *ConfigBuilder {
	b.config.DrainTimeout = timeout

	return b
}

// WithInstantFlush forces an fsync after every write. This trades
// throughput for durability.
func (b *ConfigBuilder) WithInstantFlush(enable bool) *ConfigBuilder {
	b.config.InstantFlush = enable

	return b
}

// WithConsoleEcho mirrors emitted lines to stderr for development.
func (b *ConfigBuilder) WithConsoleEcho(enable bool) *ConfigBuilder {
	b.config.EchoConsole = enable

	return b
}

// WithProcessScopedDir nests the log directory under the executable
// base name.
func (b *ConfigBuilder) WithProcessScopedDir(enable bool) *ConfigBuilder {
	b.config.ProcessScopedDir = enable

	return b
}

// WithDurableDefaults configures synchronous delivery with instant
// flush, for logs that must reach disk before the caller proceeds.
func (b *ConfigBuilder) WithDurableDefaults() *ConfigBuilder {
	return b.
		WithSync().
		WithInstantFlush(true)
}

// WithThroughputDefaults configures async delivery tuned for
// high-volume streams such as access logs.
func (b *ConfigBuilder) WithThroughputDefaults() *ConfigBuilder {
	return b.
		WithAsync(true).
		WithQueueSize(4 * DefaultQueueSize).
		WithOverflowStrategy(OverflowDropNewest).
		WithInstantFlush(false)
}

// Build creates a Config object from the builder.
func (b *ConfigBuilder) Build() *Config {
	config := b.config

	return &config
}
