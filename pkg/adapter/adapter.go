// Package adapter provides the concrete implementation of the rotolog
// Logger interface.
//
// An adapter binds one formatter, one file sink behind either a
// synchronous (locked) or asynchronous (queued) writer, and a
// minimum-level filter. Handles are shared by pointer: everything that
// holds the same *Adapter writes through the same sink and therefore
// the same rotation history.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/rotolog"
	"github.com/hyp3rd/rotolog/internal/output"
)

// osExit is swapped out in tests; Fatal must otherwise terminate the
// process for real.
//
//nolint:gochecknoglobals
var osExit = os.Exit

// fatalPrefix is stamped onto the message text of Fatal calls. Fatal
// lines carry the error level tag, not a level of their own.
const fatalPrefix = "FATAL: "

// Adapter implements rotolog.Logger on top of the output package.
type Adapter struct {
	name   string
	config rotolog.Config
	level  atomic.Uint32

	// writer is the combined delivery path used by Log: sync or async
	// base, optionally teed into the console echo.
	writer output.Writer

	// Exactly one of syncWriter/asyncWriter is set, matching the
	// configured mode; Fatal and Rotate need the concrete type.
	syncWriter  *output.SyncWriter
	asyncWriter *output.AsyncWriter
	echo        *output.ConsoleEcho
}

// New builds a logger from the given configuration: validates it,
// creates the log directory, opens the active file and, in async mode,
// starts the consumer goroutine.
func New(config rotolog.Config) (*Adapter, error) {
	err := config.Validate()
	if err != nil {
		return nil, ewrap.Wrap(err, "invalid logger configuration")
	}

	dir := config.Directory
	if config.ProcessScopedDir {
		dir = filepath.Join(dir, processName())
	}

	sink, err := output.NewFileSink(output.SinkConfig{
		Dir:          dir,
		BaseName:     config.FileName,
		MaxSizeBytes: config.MaxSizeBytes,
		MaxFiles:     config.MaxFiles,
		InstantFlush: config.InstantFlush,
		FileMode:     rotolog.LogFilePermissions,
		ErrorHandler: stderrNotice,
	})
	if err != nil {
		return nil, ewrap.Wrapf(err, "creating file sink for instance %q", config.InstanceName)
	}

	a := &Adapter{
		name:   config.InstanceName,
		config: config,
	}
	a.level.Store(uint32(config.Level))

	if config.Async {
		a.asyncWriter = output.NewAsyncWriter(sink, output.AsyncConfig{
			QueueSize:    config.QueueSize,
			DrainTimeout: config.DrainTimeout,
			Overflow:     overflowStrategy(config.Overflow),
			ErrorHandler: stderrNotice,
		})
		a.writer = a.asyncWriter
	} else {
		a.syncWriter = output.NewSyncWriter(sink)
		a.writer = a.syncWriter
	}

	if config.EchoConsole {
		a.echo = output.NewConsoleEcho(os.Stderr)
		a.writer = output.NewTee(a.writer, a.echo)
	}

	return a, nil
}

// Log writes a message at the given level if it passes the minimum
// level filter.
func (a *Adapter) Log(level rotolog.Level, msg string) error {
	if !level.IsValid() || level < a.GetLevel() {
		return nil
	}

	line := renderLine(time.Now(), currentThreadTag(), level, msg)

	_, err := a.writer.WriteLine(line)

	return err
}

// logNotify funnels the convenience methods through Log and reports
// failures on stderr, since those call sites have no error channel.
func (a *Adapter) logNotify(level rotolog.Level, msg string) {
	err := a.Log(level, msg)
	if err != nil {
		stderrNotice(err)
	}
}

// Debug logs a message at debug level.
func (a *Adapter) Debug(msg string) {
	a.logNotify(rotolog.DebugLevel, msg)
}

// Info logs a message at info level.
func (a *Adapter) Info(msg string) {
	a.logNotify(rotolog.InfoLevel, msg)
}

// Warn logs a message at warn level.
func (a *Adapter) Warn(msg string) {
	a.logNotify(rotolog.WarnLevel, msg)
}

// Error logs a message at error level.
func (a *Adapter) Error(msg string) {
	a.logNotify(rotolog.ErrorLevel, msg)
}

// Debugf logs a formatted message at debug level.
func (a *Adapter) Debugf(format string, args ...any) {
	a.Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at info level.
func (a *Adapter) Infof(format string, args ...any) {
	a.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at warn level.
func (a *Adapter) Warnf(format string, args ...any) {
	a.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at error level.
func (a *Adapter) Errorf(format string, args ...any) {
	a.Error(fmt.Sprintf(format, args...))
}

// Fatal writes an error-level line with the literal FATAL prefix,
// regardless of the minimum level, pushes it to disk, then terminates
// the process. In async mode the queue is flushed best-effort first: a
// fatal message that never reaches the file would defeat its purpose.
func (a *Adapter) Fatal(msg string) {
	line := renderLine(time.Now(), currentThreadTag(), rotolog.ErrorLevel, fatalPrefix+msg)

	var err error

	if a.asyncWriter != nil {
		err = a.asyncWriter.WriteCritical(line)
	} else {
		_, err = a.syncWriter.WriteLine(line)
		if err == nil {
			err = a.syncWriter.Sync()
		}
	}

	if err != nil {
		stderrNotice(ewrap.Wrap(err, "delivering fatal log"))
		fmt.Fprintf(os.Stderr, "original fatal log: %s", line)
	}

	if a.echo != nil {
		//nolint:errcheck // the process is exiting; the echo is best-effort
		a.echo.WriteLine(line)
	}

	osExit(1)
}

// Fatalf logs a formatted message through Fatal.
func (a *Adapter) Fatalf(format string, args ...any) {
	a.Fatal(fmt.Sprintf(format, args...))
}

// Name returns the instance name.
func (a *Adapter) Name() string {
	return a.name
}

// GetLevel returns the current minimum level.
func (a *Adapter) GetLevel() rotolog.Level {
	return rotolog.Level(a.level.Load())
}

// SetLevel sets the minimum level.
func (a *Adapter) SetLevel(level rotolog.Level) {
	if level.IsValid() {
		a.level.Store(uint32(level))
	}
}

// Stats returns the async queue counters; all zero in sync mode.
func (a *Adapter) Stats() rotolog.QueueStats {
	if a.asyncWriter == nil {
		return rotolog.QueueStats{}
	}

	m := a.asyncWriter.Metrics()

	return rotolog.QueueStats{
		Enqueued:    m.Enqueued,
		Processed:   m.Processed,
		Dropped:     m.Dropped,
		WriteErrors: m.WriteErrors,
		QueueDepth:  m.QueueDepth,
	}
}

// Rotate forces a rotation of the active file regardless of size.
func (a *Adapter) Rotate() error {
	if a.asyncWriter != nil {
		return a.asyncWriter.Rotate()
	}

	return a.syncWriter.Rotate()
}

// Sync flushes buffered lines to disk, draining the async queue first.
func (a *Adapter) Sync() error {
	return a.writer.Sync()
}

// Close drains pending lines and releases the file handle. In async
// mode the drain is bounded by the configured timeout; on timeout the
// remaining buffered lines are lost and ErrDrainTimeout reports it.
func (a *Adapter) Close() error {
	return a.writer.Close()
}

// overflowStrategy maps the public strategy onto the output package's.
func overflowStrategy(s rotolog.OverflowStrategy) output.OverflowStrategy {
	switch s {
	case rotolog.OverflowDropOldest:
		return output.OverflowDropOldest
	case rotolog.OverflowBlock:
		return output.OverflowBlock
	default:
		return output.OverflowDropNewest
	}
}

// stderrNotice reports internal logger faults on stderr. It must never
// write back through a logger, or a failing sink would recurse.
func stderrNotice(err error) {
	fmt.Fprintf(os.Stderr, "rotolog: %v\n", err)
}

// processName returns the executable base name used by the
// process-scoped directory layout.
func processName() string {
	exe, err := os.Executable()
	if err != nil {
		return "unknown"
	}

	return filepath.Base(exe)
}

var _ rotolog.Logger = (*Adapter)(nil)
