package bench

import (
	"fmt"
	"os"

	"github.com/apoorvam/goterminal"
	"github.com/mattn/go-isatty"
)

// ConsoleProgress redraws a single status line between passes.
type ConsoleProgress struct {
	w *goterminal.Writer
}

// NewConsoleProgress returns a Progress drawing on f, or one that does
// nothing when f is not a terminal.
func NewConsoleProgress(f *os.File) Progress {
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return nopProgress{}
	}
	return &ConsoleProgress{w: goterminal.New(f)}
}

func (c *ConsoleProgress) Pass(n int, elapsed, budget float64, mflops float64) {
	fmt.Fprintf(c.w, "pass %d  %.1f/%.1fs  last %.0f MFLOPS\n", n, elapsed, budget, mflops)
	c.w.Clear()
	c.w.Print()
}

func (c *ConsoleProgress) Done() {
	c.w.Clear()
	c.w.Reset()
}
