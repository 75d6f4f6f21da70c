package output

import (
	"github.com/hyp3rd/ewrap"
)

// Common errors for the output package.
var (
	// ErrWriterClosed is returned when attempting to write to a closed writer.
	ErrWriterClosed = ewrap.New("writer is closed")

	// ErrQueueFull is returned when the async writer's queue is full.
	ErrQueueFull = ewrap.New("write queue is full")

	// ErrDrainTimeout is returned when draining the async queue exceeds
	// its deadline; buffered lines past the deadline are lost.
	ErrDrainTimeout = ewrap.New("queue drain timed out")
)
