// Package log is the application-facing entry point: a registry of
// named logger instances plus name-addressed logging functions.
//
// A process typically initialises its streams once at startup and logs
// by instance name from anywhere afterwards:
//
//	_, err := log.Init(*rotolog.NewConfigBuilder().
//		WithInstanceName("app").
//		WithDirectory("/var/log/myapp").
//		Build())
//	if err != nil {
//		panic(err)
//	}
//	defer log.Shutdown()
//
//	log.Info("app", "service started on port %d", port)
//
// The name-addressed functions are deliberately forgiving: logging to
// an unregistered instance is a silent no-op, so a library can emit
// into a stream its host may or may not have configured. Fatal is the
// exception; it terminates the process even when the instance is
// missing, because callers rely on it not returning.
package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/rotolog"
	"github.com/hyp3rd/rotolog/pkg/adapter"
)

var (
	// ErrInstanceExists is returned by Init when the instance name is
	// already registered. Two configurations for one name would mean
	// two rotation histories for one logical stream.
	ErrInstanceExists = ewrap.New("logger instance already registered")

	// ErrInstanceNotFound is returned by Get for unknown names.
	ErrInstanceNotFound = ewrap.New("logger instance not found")
)

//nolint:gochecknoglobals // the registry is process-wide by design.
var registry = struct {
	mu        sync.RWMutex
	instances map[string]rotolog.Logger
}{
	instances: make(map[string]rotolog.Logger),
}

// Init builds a logger from the configuration and registers it under
// its instance name. The returned handle and every handle later
// obtained via Get refer to the same underlying sink and queue.
//
// Duplicate names are rejected with ErrInstanceExists rather than
// merged or replaced; pick distinct instance names for distinct
// streams.
func Init(config rotolog.Config) (rotolog.Logger, error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, ok := registry.instances[config.InstanceName]; ok {
		return nil, ewrap.Wrapf(ErrInstanceExists, "instance %q", config.InstanceName)
	}

	logger, err := adapter.New(config)
	if err != nil {
		return nil, ewrap.Wrapf(err, "initialising instance %q", config.InstanceName)
	}

	registry.instances[config.InstanceName] = logger

	return logger, nil
}

// Get returns the handle registered under the given name.
func Get(name string) (rotolog.Logger, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	logger, ok := registry.instances[name]
	if !ok {
		return nil, ewrap.Wrapf(ErrInstanceNotFound, "instance %q", name)
	}

	return logger, nil
}

// Default returns the instance registered under the default name, or
// an error if none was initialised.
func Default() (rotolog.Logger, error) {
	return Get(rotolog.DefaultInstanceName)
}

// Shutdown closes every registered instance, draining async queues
// within their drain timeouts, and empties the registry. It is meant
// to run once at process exit.
func Shutdown() error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	errorGroup := ewrap.NewErrorGroup()

	for name, logger := range registry.instances {
		err := logger.Close()
		if err != nil {
			errorGroup.Add(ewrap.Wrapf(err, "closing instance %q", name))
		}
	}

	registry.instances = make(map[string]rotolog.Logger)

	if errorGroup.HasErrors() {
		return errorGroup
	}

	return nil
}

// lookup fetches an instance for the name-addressed helpers.
func lookup(instance string) (rotolog.Logger, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	logger, ok := registry.instances[instance]

	return logger, ok
}

// emit formats and logs through the named instance, silently dropping
// the message when the instance is not registered.
func emit(instance string, level rotolog.Level, format string, args ...any) {
	logger, ok := lookup(instance)
	if !ok {
		return
	}

	// The helpers have no error channel; sink faults were already
	// reported through the instance's own error path.
	_ = logger.Log(level, fmt.Sprintf(format, args...))
}

// Debug logs a formatted debug message to the named instance.
func Debug(instance, format string, args ...any) {
	emit(instance, rotolog.DebugLevel, format, args...)
}

// Info logs a formatted info message to the named instance.
func Info(instance, format string, args ...any) {
	emit(instance, rotolog.InfoLevel, format, args...)
}

// Warn logs a formatted warn message to the named instance.
func Warn(instance, format string, args ...any) {
	emit(instance, rotolog.WarnLevel, format, args...)
}

// Error logs a formatted error message to the named instance.
func Error(instance, format string, args ...any) {
	emit(instance, rotolog.ErrorLevel, format, args...)
}

// Fatal logs a formatted fatal message to the named instance and
// terminates the process. Unlike the other helpers it does not return
// when the instance is missing: the message goes to stderr and the
// process still exits.
func Fatal(instance, format string, args ...any) {
	logger, ok := lookup(instance)
	if !ok {
		fmt.Fprintf(os.Stderr, "rotolog: fatal on unknown instance %q: %s\n",
			instance, fmt.Sprintf(format, args...))
		osExit(1)

		return
	}

	logger.Fatalf(format, args...)
}

// osExit is swapped out in tests.
//
//nolint:gochecknoglobals
var osExit = os.Exit
