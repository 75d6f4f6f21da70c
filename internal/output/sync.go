package output

import "sync"

// SyncWriter serialises access to a FileSink with a mutex. Every call
// acquires the lock for the duration of the file operation, so lines
// from concurrent callers are written whole, in lock acquisition
// order, and are never interleaved at the byte level.
type SyncWriter struct {
	mu   sync.Mutex
	sink *FileSink
}

// NewSyncWriter wraps the given sink. The writer takes ownership: the
// sink must not be used directly afterwards.
func NewSyncWriter(sink *FileSink) *SyncWriter {
	return &SyncWriter{sink: sink}
}

// WriteLine writes one rendered line under the lock. Write errors
// surface to the caller; the lock is released on every exit path.
func (w *SyncWriter) WriteLine(line []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.sink.WriteLine(line)
}

// Rotate forces a rotation of the active file.
func (w *SyncWriter) Rotate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.sink.Rotate()
}

// Sync flushes the sink to durable storage.
func (w *SyncWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.sink.Sync()
}

// Close releases the sink. Closing twice is a no-op.
func (w *SyncWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.sink.Close()
}
