package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	bad     = color.New(color.FgRed)
	muted   = color.New(color.Faint)
)

// progressView shows a bar while pages are extracted and a spinner while the
// completion service is working.
type progressView struct {
	bar     *progressbar.ProgressBar
	spinner *spinner.Spinner
}

func newProgressView(label string) *progressView {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr
	return &progressView{bar: bar, spinner: s}
}

func (p *progressView) extracting(percent int, status string) {
	p.bar.Describe(status)
	_ = p.bar.Set(percent)
}

func (p *progressView) generating(status string) {
	if p.spinner.Active() {
		p.spinner.Suffix = " " + status
		return
	}
	_ = p.bar.Finish()
	p.spinner.Suffix = " " + status
	p.spinner.Start()
}

func (p *progressView) stop() {
	_ = p.bar.Finish()
	p.spinner.Stop()
}

func printHeading(w io.Writer, title string) {
	heading.Fprintln(w, title)
}

func printError(format string, args ...any) {
	bad.Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
}
