// Package terminal provides prompts and small helpers for interactive terminals.
package terminal

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"
)

// Width returns the width of stdout, or 80 when it is not a terminal.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// ClearPreviousLines erases text that was echoed to w, typically a prompt plus
// the user's answer. textLength is the number of characters printed; wrapping is
// computed from width. The line the cursor moved to after Enter is cleared too.
func ClearPreviousLines(w io.Writer, textLength, width int) {
	if width <= 0 {
		width = 80
	}
	lines := int(math.Ceil(float64(textLength) / float64(width)))
	if lines < 1 {
		lines = 1
	}
	toClear := lines + 1

	for i := 0; i < toClear; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < toClear-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
