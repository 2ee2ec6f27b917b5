package bench

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

var ErrUnknownFormat = errors.New("unknown report format")

// WriteReport renders res as "text" or "yaml".
func WriteReport(w io.Writer, format string, res *Result) error {
	switch format {
	case "", "text":
		return WriteText(w, res)
	case "yaml":
		return WriteYAML(w, res)
	default:
		return fmt.Errorf("%w %q (want text or yaml)", ErrUnknownFormat, format)
	}
}

// WriteText prints the four reference lines, followed by the fastest-pass
// figures when res came from a timed run.
func WriteText(w io.Writer, res *Result) error {
	if _, err := fmt.Fprintf(w,
		"Average time per run: %f seconds\nTotal time: %f seconds\nPerformance: %f MFLOPS\nSink: %f\n",
		res.AverageTime, res.TotalTime, res.MFLOPS, res.Sink); err != nil {
		return err
	}
	if !res.Timed {
		return nil
	}
	_, err := fmt.Fprintf(w,
		"Passes: %d\nFastest time per run: %f seconds\nFastest performance: %f MFLOPS\n",
		res.Passes, res.MinTime, res.FastestMFLOPS)
	return err
}

func WriteYAML(w io.Writer, res *Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("while encoding report: %w", err)
	}
	return enc.Close()
}

var printer = message.NewPrinter(language.English)

// Describe is a one-line key=value summary of a result with grouped digits,
// meant for the log.
func Describe(res *Result) string {
	return printer.Sprintf("kernel=%s layout=%s group=%d size=%d runs=%d passes=%d flops=%d clock=%q",
		res.Kernel, res.Layout, res.GroupWidth, res.Size, res.Runs, res.Passes, int64(res.FLOPs), res.Clock)
}
