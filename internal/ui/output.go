// Package ui renders operator-facing output through the shared tui
// widgets, either as plain lines or inside a progress view when running
// interactively.
package ui

import (
	"fmt"

	"github.com/net2share/go-corelib/tui"
)

// Output writes styled messages. In interactive mode, messages between
// BeginProgress and EndProgress land in a scrolling progress view instead
// of plain stdout.
type Output struct {
	interactive  bool
	progressView *tui.ProgressView
}

// NewOutput creates an output writer. Interactive mode enables progress
// views; plain mode prints every message directly.
func NewOutput(interactive bool) *Output {
	return &Output{interactive: interactive}
}

func (o *Output) Print(msg string) {
	if o.progressView != nil {
		o.progressView.AddText(msg)
		return
	}
	fmt.Print(msg)
}

func (o *Output) Println(args ...interface{}) {
	if o.progressView != nil {
		if len(args) == 0 {
			o.progressView.AddText("")
		} else {
			o.progressView.AddText(fmt.Sprint(args...))
		}
		return
	}
	fmt.Println(args...)
}

func (o *Output) Info(msg string) {
	if o.progressView != nil {
		o.progressView.AddInfo(msg)
		return
	}
	tui.PrintInfo(msg)
}

func (o *Output) Success(msg string) {
	if o.progressView != nil {
		o.progressView.AddSuccess(msg)
		return
	}
	tui.PrintSuccess(msg)
}

func (o *Output) Warning(msg string) {
	if o.progressView != nil {
		o.progressView.AddWarning(msg)
		return
	}
	tui.PrintWarning(msg)
}

func (o *Output) Error(msg string) {
	if o.progressView != nil {
		o.progressView.AddError(msg)
		return
	}
	tui.PrintError(msg)
}

func (o *Output) Status(msg string) {
	if o.progressView != nil {
		o.progressView.AddStatus(msg)
		return
	}
	tui.PrintStatus(msg)
}

func (o *Output) Step(current, total int, msg string) {
	if o.progressView != nil {
		o.progressView.AddInfo(fmt.Sprintf("[%d/%d] %s", current, total, msg))
		return
	}
	tui.PrintStep(current, total, msg)
}

func (o *Output) Box(title string, lines []string) {
	if o.progressView != nil {
		if title != "" {
			o.progressView.AddText(title)
		}
		for _, line := range lines {
			o.progressView.AddText("  " + line)
		}
		return
	}
	tui.PrintBox(title, lines)
}

func (o *Output) KV(key, value string) string {
	return tui.KV(key+": ", value)
}

// BeginProgress opens a progress view in interactive mode. Plain mode
// keeps printing directly, so command output stays script-friendly.
func (o *Output) BeginProgress(title string) {
	if o.interactive {
		o.progressView = tui.NewProgressView(title)
	}
}

func (o *Output) EndProgress() {
	if o.progressView != nil {
		o.progressView.Done()
		o.progressView = nil
	}
}

func (o *Output) IsProgressActive() bool {
	return o.progressView != nil
}
