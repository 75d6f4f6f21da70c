package adapter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/rotolog"
)

func newTestConfig(t *testing.T) rotolog.Config {
	t.Helper()

	return *rotolog.NewConfigBuilder().
		WithInstanceName("test").
		WithDirectory(t.TempDir()).
		WithFileName("app").
		WithSync().
		Build()
}

func readLog(t *testing.T, config rotolog.Config) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(config.Directory, config.FileName+".log"))
	require.NoError(t, err)

	return string(data)
}

func TestNew(t *testing.T) {
	t.Run("invalid config is rejected", func(t *testing.T) {
		config := newTestConfig(t)
		config.FileName = ""

		_, err := New(config)
		require.Error(t, err)
	})

	t.Run("creates the log directory", func(t *testing.T) {
		config := newTestConfig(t)
		config.Directory = filepath.Join(config.Directory, "deep", "logs")

		logger, err := New(config)
		require.NoError(t, err)

		defer logger.Close()

		_, err = os.Stat(filepath.Join(config.Directory, "app.log"))
		require.NoError(t, err)
	})

	t.Run("process scoped directory", func(t *testing.T) {
		config := newTestConfig(t)
		config.ProcessScopedDir = true

		logger, err := New(config)
		require.NoError(t, err)

		defer logger.Close()

		entries, err := os.ReadDir(config.Directory)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].IsDir(), "expected a per-process subdirectory")

		_, err = os.Stat(filepath.Join(config.Directory, entries[0].Name(), "app.log"))
		require.NoError(t, err)
	})
}

func TestAdapter_Log(t *testing.T) {
	t.Run("writes a formatted line", func(t *testing.T) {
		config := newTestConfig(t)

		logger, err := New(config)
		require.NoError(t, err)

		defer logger.Close()

		require.NoError(t, logger.Log(rotolog.InfoLevel, "service started"))
		require.NoError(t, logger.Sync())

		content := readLog(t, config)
		assert.Regexp(t,
			`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} \[info \]\[\d{4}\] service started\n$`,
			content)
	})

	t.Run("minimum level filters lower levels", func(t *testing.T) {
		config := newTestConfig(t)
		config.Level = rotolog.WarnLevel

		logger, err := New(config)
		require.NoError(t, err)

		defer logger.Close()

		logger.Debug("invisible debug")
		logger.Info("invisible info")
		logger.Warn("visible warn")
		logger.Error("visible error")
		require.NoError(t, logger.Sync())

		content := readLog(t, config)
		assert.NotContains(t, content, "invisible")
		assert.Contains(t, content, "[warn ]")
		assert.Contains(t, content, "visible warn")
		assert.Contains(t, content, "[error]")
		assert.Contains(t, content, "visible error")
	})

	t.Run("invalid level is dropped silently", func(t *testing.T) {
		config := newTestConfig(t)

		logger, err := New(config)
		require.NoError(t, err)

		defer logger.Close()

		require.NoError(t, logger.Log(rotolog.Level(42), "nope"))
		require.NoError(t, logger.Sync())
		assert.Empty(t, readLog(t, config))
	})

	t.Run("formatted variants", func(t *testing.T) {
		config := newTestConfig(t)
		config.Level = rotolog.DebugLevel

		logger, err := New(config)
		require.NoError(t, err)

		defer logger.Close()

		logger.Debugf("debug %d", 1)
		logger.Infof("info %s", "two")
		logger.Warnf("warn %v", 3.0)
		logger.Errorf("error %q", "four")
		require.NoError(t, logger.Sync())

		content := readLog(t, config)
		assert.Contains(t, content, "debug 1")
		assert.Contains(t, content, "info two")
		assert.Contains(t, content, "warn 3")
		assert.Contains(t, content, `error "four"`)
	})
}

func TestAdapter_SetLevel(t *testing.T) {
	config := newTestConfig(t)

	logger, err := New(config)
	require.NoError(t, err)

	defer logger.Close()

	assert.Equal(t, rotolog.InfoLevel, logger.GetLevel())

	logger.SetLevel(rotolog.ErrorLevel)
	assert.Equal(t, rotolog.ErrorLevel, logger.GetLevel())

	// Invalid values leave the level untouched.
	logger.SetLevel(rotolog.Level(42))
	assert.Equal(t, rotolog.ErrorLevel, logger.GetLevel())

	logger.Warn("filtered out")
	require.NoError(t, logger.Sync())
	assert.Empty(t, readLog(t, config))
}

func TestAdapter_Fatal(t *testing.T) {
	t.Run("sync mode", func(t *testing.T) {
		exitCode := -1
		osExit = func(code int) { exitCode = code }

		defer func() { osExit = os.Exit }()

		config := newTestConfig(t)
		// Fatal must bypass even the strictest filter.
		config.Level = rotolog.ErrorLevel

		logger, err := New(config)
		require.NoError(t, err)

		defer logger.Close()

		logger.Fatal("unrecoverable state")

		assert.Equal(t, 1, exitCode)

		content := readLog(t, config)
		assert.Contains(t, content, "[error]")
		assert.Contains(t, content, "FATAL: unrecoverable state")
	})

	t.Run("async mode flushes before exit", func(t *testing.T) {
		exitCode := -1
		osExit = func(code int) { exitCode = code }

		defer func() { osExit = os.Exit }()

		config := newTestConfig(t)
		config.Async = true
		config.QueueSize = 64

		logger, err := New(config)
		require.NoError(t, err)

		defer logger.Close()

		logger.Info("context before the crash")
		logger.Fatalf("fatal %s", "condition")

		assert.Equal(t, 1, exitCode)

		content := readLog(t, config)
		assert.Contains(t, content, "context before the crash")
		assert.Contains(t, content, "FATAL: fatal condition")
	})
}

func TestAdapter_AsyncDelivery(t *testing.T) {
	config := newTestConfig(t)
	config.Async = true
	config.QueueSize = 128

	logger, err := New(config)
	require.NoError(t, err)

	for i := range 10 {
		logger.Infof("message %02d", i)
	}

	require.NoError(t, logger.Sync())

	content := readLog(t, config)
	assert.Equal(t, 10, strings.Count(content, "message "))

	stats := logger.Stats()
	assert.Equal(t, uint64(10), stats.Enqueued)
	assert.Equal(t, uint64(10), stats.Processed)
	assert.Zero(t, stats.Dropped)

	require.NoError(t, logger.Close())
}

func TestAdapter_StatsSyncMode(t *testing.T) {
	config := newTestConfig(t)

	logger, err := New(config)
	require.NoError(t, err)

	defer logger.Close()

	logger.Info("counted nowhere")

	assert.Equal(t, rotolog.QueueStats{}, logger.Stats())
}

func TestAdapter_Rotate(t *testing.T) {
	for _, async := range []bool{false, true} {
		name := "sync"
		if async {
			name = "async"
		}

		t.Run(name, func(t *testing.T) {
			config := newTestConfig(t)
			config.Async = async

			logger, err := New(config)
			require.NoError(t, err)

			defer logger.Close()

			logger.Info("pre rotation")
			require.NoError(t, logger.Sync())
			require.NoError(t, logger.Rotate())

			backup, err := os.ReadFile(filepath.Join(config.Directory, config.FileName+".1.log"))
			require.NoError(t, err)
			assert.Contains(t, string(backup), "pre rotation")
			assert.Empty(t, readLog(t, config))
		})
	}
}

func TestAdapter_Name(t *testing.T) {
	config := newTestConfig(t)
	config.InstanceName = "access"

	logger, err := New(config)
	require.NoError(t, err)

	defer logger.Close()

	assert.Equal(t, "access", logger.Name())
}

func TestAdapter_SizeRotation(t *testing.T) {
	config := newTestConfig(t)
	config.MaxSizeBytes = 200
	config.MaxFiles = 2

	logger, err := New(config)
	require.NoError(t, err)

	defer logger.Close()

	// Each rendered line is roughly 90 bytes, so a handful of writes
	// leaves rotated backups behind.
	for i := range 8 {
		logger.Infof("line %d %s", i, strings.Repeat("x", 50))
	}

	require.NoError(t, logger.Sync())

	_, err = os.Stat(filepath.Join(config.Directory, config.FileName+".1.log"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(config.Directory, config.FileName+".3.log"))
	assert.True(t, os.IsNotExist(err), "retention bound exceeded")
}
