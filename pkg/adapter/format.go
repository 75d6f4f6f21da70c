package adapter

import (
	"bytes"
	"runtime"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/hyp3rd/rotolog"
)

// timestampLayout renders millisecond-resolution local timestamps.
const timestampLayout = "2006-01-02 15:04:05.000"

// threadTagModulus folds the goroutine hash into a four digit tag.
const threadTagModulus = 10000

// levelTag returns the lowercase level tag padded to width 5, so the
// bracketed column lines up across levels.
func levelTag(level rotolog.Level) string {
	switch level {
	case rotolog.DebugLevel:
		return "debug"
	case rotolog.InfoLevel:
		return "info "
	case rotolog.WarnLevel:
		return "warn "
	case rotolog.ErrorLevel:
		return "error"
	default:
		return "info "
	}
}

// renderLine produces one complete output line:
//
//	YYYY-MM-DD HH:MM:SS.mmm [level][NNNN] message\n
//
// It is a pure function of its inputs; the caller owns the returned
// buffer.
func renderLine(now time.Time, threadTag uint64, level rotolog.Level, msg string) []byte {
	buf := make([]byte, 0, len(timestampLayout)+len(msg)+16)

	buf = now.AppendFormat(buf, timestampLayout)
	buf = append(buf, ' ', '[')
	buf = append(buf, levelTag(level)...)
	buf = append(buf, ']', '[')
	buf = appendThreadTag(buf, threadTag%threadTagModulus)
	buf = append(buf, ']', ' ')
	buf = append(buf, msg...)
	buf = append(buf, '\n')

	return buf
}

// appendThreadTag writes the tag as exactly four digits.
func appendThreadTag(buf []byte, tag uint64) []byte {
	return append(buf,
		byte('0'+tag/1000%10),
		byte('0'+tag/100%10),
		byte('0'+tag/10%10),
		byte('0'+tag%10),
	)
}

// currentThreadTag derives a stable per-goroutine tag by hashing the
// goroutine id from the stack header. The hash keeps the tag stable
// for the lifetime of the goroutine and across runs of the same
// binary.
func currentThreadTag() uint64 {
	var stack [64]byte

	n := runtime.Stack(stack[:], false)

	// The header reads "goroutine 123 [running]:".
	header := bytes.TrimPrefix(stack[:n], []byte("goroutine "))
	if i := bytes.IndexByte(header, ' '); i > 0 {
		header = header[:i]
	}

	return xxhash.Sum64(header)
}
