package terminal

import (
	"fmt"
	"io"
	"os"
)

// Control rewrites a block of status lines in place
type Control struct {
	out        io.Writer
	isTerminal bool
	printed    int
}

// NewControl creates a control writing to stdout
func NewControl() *Control {
	return NewControlFor(os.Stdout, isTerminal(os.Stdout))
}

// NewControlFor creates a control writing to out. When tty is false lines are
// appended instead of rewritten.
func NewControlFor(out io.Writer, tty bool) *Control {
	return &Control{out: out, isTerminal: tty}
}

// isTerminal checks if f is a character device
func isTerminal(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// MoveCursorUp moves the cursor up by the specified number of lines
func (c *Control) MoveCursorUp(lines int) {
	if lines <= 0 {
		return
	}
	fmt.Fprintf(c.out, "\033[%dA", lines)
}

// ClearLine clears the current line
func (c *Control) ClearLine() {
	fmt.Fprint(c.out, "\033[2K\r")
}

// UpdateInPlace replaces the lines printed by the previous call
func (c *Control) UpdateInPlace(lines []string) {
	if !c.isTerminal {
		// If not in a terminal (e.g., piped output), just print normally
		for _, line := range lines {
			fmt.Fprintln(c.out, line)
		}
		return
	}

	c.MoveCursorUp(c.printed)
	for i := 0; i < max(c.printed, len(lines)); i++ {
		c.ClearLine()
		if i < len(lines) {
			fmt.Fprint(c.out, lines[i])
		}
		fmt.Fprintln(c.out)
	}
	c.printed = max(c.printed, len(lines))
}

// Reset forgets the previous block so the next update starts below it
func (c *Control) Reset() {
	c.printed = 0
}
