package output

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultQueueSize    = 1024
	defaultDrainTimeout = 5 * time.Second
)

// OverflowStrategy defines how AsyncWriter behaves when the queue is full.
type OverflowStrategy uint8

const (
	// OverflowDropNewest drops the incoming line (default).
	OverflowDropNewest OverflowStrategy = iota
	// OverflowDropOldest discards the oldest queued line to make room.
	OverflowDropOldest
	// OverflowBlock makes producers wait until there is queue space.
	OverflowBlock
)

// AsyncConfig configures an AsyncWriter.
type AsyncConfig struct {
	// QueueSize is the capacity of the line queue.
	QueueSize int
	// DrainTimeout bounds queue draining during Flush and Close.
	DrainTimeout time.Duration
	// Overflow controls what happens when the queue is full.
	Overflow OverflowStrategy
	// ErrorHandler is called when a write fails inside the consumer.
	// It must not write back into the same writer.
	ErrorHandler func(error)
	// DropHandler is invoked with each line the overflow policy or a
	// failed write discards.
	DropHandler func([]byte)
}

// Metrics provides insight into the internal state of the AsyncWriter.
type Metrics struct {
	Enqueued    uint64
	Processed   uint64
	Dropped     uint64
	WriteErrors uint64
	QueueDepth  int
}

// AsyncWriter decouples logging from file I/O: WriteLine copies the
// line into a bounded FIFO queue and returns, while a single consumer
// goroutine owns the FileSink exclusively and performs the writes. No
// lock is needed around the sink because the consumer is its only
// user.
//
// Queue capacity is a hard bound on buffered log volume: when it is
// reached the configured overflow strategy applies and drops are
// counted, never silent.
type AsyncWriter struct {
	sink       Sink
	config     AsyncConfig
	lineCh     chan []byte
	stopCh     chan struct{}
	flushCh    chan chan error
	rotateCh   chan chan error
	wg         sync.WaitGroup
	closed     bool
	closeMutex sync.Mutex

	enqueuedCount  atomic.Uint64
	processedCount atomic.Uint64
	droppedCount   atomic.Uint64
	writeErrors    atomic.Uint64
}

// NewAsyncWriter starts the consumer goroutine for the given sink. The
// writer takes ownership of the sink and closes it when the consumer
// exits.
func NewAsyncWriter(sink Sink, config AsyncConfig) *AsyncWriter {
	if config.QueueSize <= 0 {
		config.QueueSize = defaultQueueSize
	}

	if config.DrainTimeout <= 0 {
		config.DrainTimeout = defaultDrainTimeout
	}

	w := &AsyncWriter{
		sink:     sink,
		config:   config,
		lineCh:   make(chan []byte, config.QueueSize),
		stopCh:   make(chan struct{}),
		flushCh:  make(chan chan error, 1),
		rotateCh: make(chan chan error, 1),
	}

	w.wg.Add(1)

	go w.consume()

	return w
}

// WriteLine copies the line into the queue and returns without waiting
// for the write to happen. Behaviour on a full queue follows the
// configured overflow strategy; a dropped line is counted and reported
// through the drop handler, and ErrQueueFull is returned. The original
// caller of an async logger never sees write failures beyond this.
//
// A line enqueued concurrently with Close can land after the
// consumer's final drain; such a line is lost with only its enqueued
// count recorded. Shutdown ordering is the caller's job: stop
// producing, then Close.
func (w *AsyncWriter) WriteLine(line []byte) (int, error) {
	w.closeMutex.Lock()
	closed := w.closed
	w.closeMutex.Unlock()

	if closed {
		return 0, ErrWriterClosed
	}

	buf := make([]byte, len(line))
	copy(buf, line)

	switch w.config.Overflow {
	case OverflowBlock:
		select {
		case w.lineCh <- buf:
			w.enqueuedCount.Add(1)

			return len(line), nil
		case <-w.stopCh:
			return 0, ErrWriterClosed
		}
	case OverflowDropOldest:
		if w.tryEnqueue(buf) {
			return len(line), nil
		}

		w.discardOldest()

		if w.tryEnqueue(buf) {
			return len(line), nil
		}

		w.recordOverflow(buf)

		return 0, ErrQueueFull
	default: // OverflowDropNewest
		if w.tryEnqueue(buf) {
			return len(line), nil
		}

		w.recordOverflow(buf)

		return 0, ErrQueueFull
	}
}

// WriteCritical enqueues the line even if that means waiting for queue
// space, then flushes the queue to disk. It is the delivery path for
// fatal messages, which must reach the file before the process exits.
func (w *AsyncWriter) WriteCritical(line []byte) error {
	w.closeMutex.Lock()
	closed := w.closed
	w.closeMutex.Unlock()

	if closed {
		return ErrWriterClosed
	}

	buf := make([]byte, len(line))
	copy(buf, line)

	select {
	case w.lineCh <- buf:
		w.enqueuedCount.Add(1)
	case <-w.stopCh:
		return ErrWriterClosed
	case <-time.After(w.config.DrainTimeout):
		return ErrQueueFull
	}

	return w.Flush()
}

// Flush waits for every queued line to be written and synced, bounded
// by the drain timeout. Lines enqueued after Flush is called are not
// covered.
func (w *AsyncWriter) Flush() error {
	w.closeMutex.Lock()

	if w.closed {
		w.closeMutex.Unlock()

		return ErrWriterClosed
	}

	w.closeMutex.Unlock()

	doneCh := make(chan error, 1)

	select {
	case w.flushCh <- doneCh:
	case <-w.stopCh:
		return ErrWriterClosed
	case <-time.After(w.config.DrainTimeout):
		return ErrDrainTimeout
	}

	select {
	case err := <-doneCh:
		return err
	case <-time.After(w.config.DrainTimeout):
		return ErrDrainTimeout
	}
}

// Sync is an alias for Flush so AsyncWriter satisfies Writer.
func (w *AsyncWriter) Sync() error {
	return w.Flush()
}

// Rotate asks the consumer to rotate the active file and reports the
// result. The rotation happens between queued writes, never mid-line.
func (w *AsyncWriter) Rotate() error {
	w.closeMutex.Lock()

	if w.closed {
		w.closeMutex.Unlock()

		return ErrWriterClosed
	}

	w.closeMutex.Unlock()

	resultCh := make(chan error, 1)

	select {
	case w.rotateCh <- resultCh:
	case <-w.stopCh:
		return ErrWriterClosed
	case <-time.After(w.config.DrainTimeout):
		return ErrDrainTimeout
	}

	select {
	case err := <-resultCh:
		return err
	case <-time.After(w.config.DrainTimeout):
		return ErrDrainTimeout
	}
}

// Close stops accepting lines, waits for the consumer to drain the
// queue (bounded by the drain timeout) and releases the sink. If the
// deadline elapses, the remaining buffered lines are lost and
// ErrDrainTimeout reports that loss; the consumer still closes the
// sink once its current write returns.
func (w *AsyncWriter) Close() error {
	w.closeMutex.Lock()

	if w.closed {
		w.closeMutex.Unlock()

		return ErrWriterClosed
	}

	w.closed = true
	w.closeMutex.Unlock()

	close(w.stopCh)

	done := make(chan struct{})

	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(w.config.DrainTimeout):
		return ErrDrainTimeout
	}
}

// Metrics returns a snapshot of the current counters.
func (w *AsyncWriter) Metrics() Metrics {
	return Metrics{
		Enqueued:    w.enqueuedCount.Load(),
		Processed:   w.processedCount.Load(),
		Dropped:     w.droppedCount.Load(),
		WriteErrors: w.writeErrors.Load(),
		QueueDepth:  len(w.lineCh),
	}
}

// consume is the single goroutine owning the sink. It pops queued
// lines in FIFO order, so enqueue order equals write order.
func (w *AsyncWriter) consume() {
	defer w.wg.Done()
	defer w.closeSink()

	for {
		select {
		case line := <-w.lineCh:
			w.writeLine(line)
		case doneCh := <-w.flushCh:
			doneCh <- w.drainAndSync()
		case resultCh := <-w.rotateCh:
			resultCh <- w.sink.Rotate()
		case <-w.stopCh:
			w.drain()

			return
		}
	}
}

// writeLine performs one sink write. Failures are counted and the line
// is discarded: the producer has already returned, so there is no one
// to propagate the error to.
func (w *AsyncWriter) writeLine(line []byte) {
	_, err := w.sink.WriteLine(line)
	if err != nil {
		w.writeErrors.Add(1)
		w.droppedCount.Add(1)

		if w.config.ErrorHandler != nil {
			w.config.ErrorHandler(err)
		}

		if w.config.DropHandler != nil {
			w.config.DropHandler(line)
		}

		return
	}

	w.processedCount.Add(1)
}

// drain writes every line buffered at this moment.
func (w *AsyncWriter) drain() {
	for {
		select {
		case line := <-w.lineCh:
			w.writeLine(line)
		default:
			return
		}
	}
}

func (w *AsyncWriter) drainAndSync() error {
	w.drain()

	return w.sink.Sync()
}

func (w *AsyncWriter) closeSink() {
	err := w.sink.Close()
	if err != nil && w.config.ErrorHandler != nil {
		w.config.ErrorHandler(err)
	}
}

// tryEnqueue attempts to enqueue a line without blocking.
func (w *AsyncWriter) tryEnqueue(line []byte) bool {
	select {
	case w.lineCh <- line:
		w.enqueuedCount.Add(1)

		return true
	default:
		return false
	}
}

// discardOldest removes the oldest queued line to make room for a new one.
func (w *AsyncWriter) discardOldest() {
	select {
	case line := <-w.lineCh:
		w.droppedCount.Add(1)

		if w.config.DropHandler != nil {
			w.config.DropHandler(line)
		}
	default:
	}
}

// recordOverflow accounts for a line that could not be enqueued.
func (w *AsyncWriter) recordOverflow(line []byte) {
	w.droppedCount.Add(1)

	if w.config.DropHandler != nil {
		w.config.DropHandler(line)
	}

	if w.config.ErrorHandler != nil {
		w.config.ErrorHandler(ErrQueueFull)
	}
}
