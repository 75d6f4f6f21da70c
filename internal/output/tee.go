package output

import (
	"strings"

	"github.com/hyp3rd/ewrap"
)

// TeeWriter fans one line out to a primary writer and any number of
// secondary writers. The primary's result is what the caller sees;
// secondary failures are collected into the returned error but never
// prevent the primary write.
//
// It exists to layer the console echo next to a file writer without
// the echo being able to break file delivery.
type TeeWriter struct {
	primary   Writer
	secondary []Writer
}

// NewTee combines a primary writer with optional secondaries, skipping
// nil entries.
func NewTee(primary Writer, secondary ...Writer) *TeeWriter {
	valid := make([]Writer, 0, len(secondary))

	for _, w := range secondary {
		if w != nil {
			valid = append(valid, w)
		}
	}

	return &TeeWriter{primary: primary, secondary: valid}
}

// WriteLine writes to the primary first, then mirrors to every
// secondary.
func (t *TeeWriter) WriteLine(line []byte) (int, error) {
	n, err := t.primary.WriteLine(line)

	var echoFailures []string

	for _, w := range t.secondary {
		_, echoErr := w.WriteLine(line)
		if echoErr != nil {
			echoFailures = append(echoFailures, echoErr.Error())
		}
	}

	if err != nil {
		return n, err
	}

	if len(echoFailures) > 0 {
		return n, ewrap.New("echo write failed: " + strings.Join(echoFailures, "; "))
	}

	return n, nil
}

// Rotate forwards to the primary writer when it supports rotation.
func (t *TeeWriter) Rotate() error {
	if rotator, ok := t.primary.(interface{ Rotate() error }); ok {
		return rotator.Rotate()
	}

	return nil
}

// Sync flushes the primary, then the secondaries.
func (t *TeeWriter) Sync() error {
	err := t.primary.Sync()

	for _, w := range t.secondary {
		syncErr := w.Sync()
		if err == nil && syncErr != nil {
			err = syncErr
		}
	}

	return err
}

// Close closes the primary, then the secondaries.
func (t *TeeWriter) Close() error {
	err := t.primary.Close()

	for _, w := range t.secondary {
		closeErr := w.Close()
		if err == nil && closeErr != nil {
			err = closeErr
		}
	}

	return err
}
