package output

import (
	"bytes"
	"io"
	"os"

	"github.com/hyp3rd/ewrap"
	"github.com/mattn/go-isatty"
)

// ANSI color codes for the console echo, keyed by level tag.
const (
	colorReset  = "\x1b[0m"
	colorCyan   = "\x1b[36m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
)

// maxLevelLookup bounds how far into a line the level tag is searched.
const maxLevelLookup = 40

// ConsoleEcho mirrors rendered lines to a terminal stream, typically
// stderr, coloring them by level when the stream is a terminal. It is
// a development aid layered next to the file sink, never a replacement
// for it.
type ConsoleEcho struct {
	out     io.Writer
	colored bool
}

// NewConsoleEcho creates an echo writer for the given stream. A nil
// stream defaults to stderr. Colors are enabled only when the stream
// is a terminal.
func NewConsoleEcho(out io.Writer) *ConsoleEcho {
	if out == nil {
		out = os.Stderr
	}

	return &ConsoleEcho{
		out:     out,
		colored: isTerminal(out),
	}
}

// WriteLine writes the line to the stream, wrapped in the ANSI color
// of its level tag when coloring is active.
func (c *ConsoleEcho) WriteLine(line []byte) (int, error) {
	if !c.colored {
		n, err := c.out.Write(line)
		if err != nil {
			return n, ewrap.Wrap(err, "writing to console")
		}

		return n, nil
	}

	color := detectLevelColor(line)

	buf := make([]byte, 0, len(line)+len(color)+len(colorReset))
	buf = append(buf, color...)
	// Keep the newline outside the color span so the reset lands on
	// the same visual line.
	payload := bytes.TrimSuffix(line, []byte("\n"))
	buf = append(buf, payload...)
	buf = append(buf, colorReset...)
	buf = append(buf, '\n')

	_, err := c.out.Write(buf)
	if err != nil {
		return 0, ewrap.Wrap(err, "writing to console")
	}

	return len(line), nil
}

// Sync is a no-op for terminal streams.
func (*ConsoleEcho) Sync() error {
	return nil
}

// Close never closes stdout/stderr.
func (c *ConsoleEcho) Close() error {
	if closer, ok := c.out.(io.Closer); ok {
		if f, ok := c.out.(*os.File); ok && (f == os.Stdout || f == os.Stderr) {
			return nil
		}

		err := closer.Close()
		if err != nil {
			return ewrap.Wrap(err, "closing console stream")
		}
	}

	return nil
}

// detectLevelColor picks a color from the level tag near the start of
// a rendered line. Unknown content stays uncolored green (info).
func detectLevelColor(line []byte) string {
	head := line
	if len(head) > maxLevelLookup {
		head = head[:maxLevelLookup]
	}

	switch {
	case bytes.Contains(head, []byte("[debug]")):
		return colorCyan
	case bytes.Contains(head, []byte("[warn ]")):
		return colorYellow
	case bytes.Contains(head, []byte("[error]")):
		return colorRed
	default:
		return colorGreen
	}
}

// isTerminal checks whether the writer is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
