// Package progress renders pipeline progress on a terminal or in CI logs.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback during analysis.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a CIReporter if the CI environment variable is set, a
// TerminalReporter otherwise. Output goes to w, or stderr when w is nil.
func NewReporter(w io.Writer) Reporter {
	if w == nil {
		w = os.Stderr
	}
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{out: w}
	}
	return &TerminalReporter{out: w}
}

// Func adapts r to a (processed, total, stage) callback. The first call
// starts the reporter with its total.
func Func(r Reporter) func(processed, total int, stage string) {
	var once sync.Once
	return func(processed, total int, stage string) {
		once.Do(func() { r.Start(total) })
		r.Update(processed, stage)
	}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints periodic lines suitable for CI logs.
type CIReporter struct {
	out   io.Writer
	total int
	last  int
}

// ciStep is the percentage between two CI progress lines.
const ciStep = 10

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.out, "Analyzing %d files\n", total)
}

func (r *CIReporter) Update(current int, message string) {
	if r.total == 0 {
		return
	}
	pct := current * 100 / r.total
	if pct < r.last+ciStep && current != r.total {
		return
	}
	r.last = pct
	fmt.Fprintf(r.out, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.out, "Analysis complete")
}
