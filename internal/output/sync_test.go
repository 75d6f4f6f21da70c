package output

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSyncWriter(t *testing.T, maxSize int64) *SyncWriter {
	t.Helper()

	sink, err := NewFileSink(SinkConfig{
		Dir:          t.TempDir(),
		BaseName:     "app",
		MaxSizeBytes: maxSize,
		MaxFiles:     3,
	})
	require.NoError(t, err)

	return NewSyncWriter(sink)
}

func TestSyncWriter_WriteLine(t *testing.T) {
	writer := newTestSyncWriter(t, 1<<20)

	defer writer.Close()

	line := []byte("hello\n")

	n, err := writer.WriteLine(line)
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	require.NoError(t, writer.Sync())
	assert.Equal(t, "hello\n", readFile(t, writer.sink.ActivePath()))
}

// Concurrent writers share one sink; every line must land exactly once
// and stay whole. The size cap is large so rotation never evicts lines
// while the count is asserted.
func TestSyncWriter_ConcurrentWrites(t *testing.T) {
	writer := newTestSyncWriter(t, 1<<20)

	defer writer.Close()

	const (
		goroutines        = 8
		linesPerGoroutine = 50
	)

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := range goroutines {
		go func(id int) {
			defer wg.Done()

			for j := range linesPerGoroutine {
				line := fmt.Sprintf("g%02d-%03d payload\n", id, j)

				_, err := writer.WriteLine([]byte(line))
				if err != nil {
					t.Errorf("write failed: %v", err)
				}
			}
		}(i)
	}

	wg.Wait()

	require.NoError(t, writer.Sync())

	data, err := os.ReadFile(writer.sink.ActivePath())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, goroutines*linesPerGoroutine)

	seen := make(map[string]bool, len(lines))

	for _, line := range lines {
		assert.Regexp(t, `^g\d{2}-\d{3} payload$`, line, "interleaved or torn line")
		assert.False(t, seen[line], "duplicate line %q", line)
		seen[line] = true
	}
}

func TestSyncWriter_RotateUnderWrites(t *testing.T) {
	writer := newTestSyncWriter(t, 1<<20)

	defer writer.Close()

	_, err := writer.WriteLine([]byte("before\n"))
	require.NoError(t, err)

	require.NoError(t, writer.Rotate())

	_, err = writer.WriteLine([]byte("after\n"))
	require.NoError(t, err)

	assert.Equal(t, "before\n", readFile(t, writer.sink.BackupPath(1)))
	assert.Equal(t, "after\n", readFile(t, writer.sink.ActivePath()))
}

func TestSyncWriter_Close(t *testing.T) {
	writer := newTestSyncWriter(t, 1<<20)

	require.NoError(t, writer.Close())
	require.NoError(t, writer.Close())

	_, err := writer.WriteLine([]byte("late\n"))
	require.ErrorIs(t, err, ErrWriterClosed)
}
