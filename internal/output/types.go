package output

// Sink is the contract AsyncWriter requires from the sink it owns:
// line writes, forced rotation and lifecycle. *FileSink is the
// production implementation.
type Sink interface {
	WriteLine(line []byte) (n int, err error)
	Rotate() error
	Sync() error
	Close() error
}

// Writer is the interface for log line writers.
//
// WriteLine takes one fully rendered log line, including the trailing
// newline, and delivers it to the underlying sink. Implementations
// guarantee that concurrent callers never interleave line bytes.
type Writer interface {
	// WriteLine writes one rendered line to the underlying sink.
	WriteLine(line []byte) (n int, err error)
	// Sync ensures that all accepted lines have reached the sink.
	Sync() error
	// Close releases the writer and its sink.
	Close() error
}
