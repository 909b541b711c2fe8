package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/elC0mpa/etl-cost-monitor/model"
)

// clearScreen moves the cursor home and erases the display
const clearScreen = "\033[H\033[2J"

// TerminalRenderer redraws the dashboard in place after every cycle
type TerminalRenderer struct {
	out     io.Writer
	spinner *spinner.Spinner
	clear   bool
}

// NewTerminalRenderer returns a renderer writing to out. A nil spinner
// disables the loading indicator; clear controls full-screen redraws.
func NewTerminalRenderer(out io.Writer, s *spinner.Spinner, clear bool) *TerminalRenderer {
	return &TerminalRenderer{out: out, spinner: s, clear: clear}
}

func (r *TerminalRenderer) RenderLoading() {
	if r.spinner != nil {
		r.spinner.Start()
	}
}

// StopLoading stops the loading indicator and restores the cursor
func (r *TerminalRenderer) StopLoading() {
	r.stopSpinner()
}

func (r *TerminalRenderer) Render(dashboard model.Dashboard) error {
	r.stopSpinner()
	if dashboard.Result == nil {
		return fmt.Errorf("render dashboard: no cycle result")
	}
	if r.clear {
		fmt.Fprint(r.out, clearScreen)
	}
	DrawDashboard(r.out, dashboard)
	return nil
}

func (r *TerminalRenderer) RenderError(err error, retryIn time.Duration) {
	r.stopSpinner()
	DrawCycleError(r.out, err, retryIn)
}

func (r *TerminalRenderer) stopSpinner() {
	if r.spinner != nil {
		r.spinner.Stop()
	}
}

// JSONRenderer writes each cycle result as an indented JSON document
type JSONRenderer struct {
	out io.Writer
}

func NewJSONRenderer(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

func (r *JSONRenderer) RenderLoading() {}

func (r *JSONRenderer) StopLoading() {}

func (r *JSONRenderer) Render(dashboard model.Dashboard) error {
	if dashboard.Result == nil {
		return fmt.Errorf("render dashboard: no cycle result")
	}

	document := struct {
		AccountID string `json:"account_id,omitempty"`
		*model.CycleResult
	}{
		AccountID:   dashboard.AccountID,
		CycleResult: dashboard.Result,
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(document); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func (r *JSONRenderer) RenderError(err error, retryIn time.Duration) {
	document := struct {
		Error          string `json:"error"`
		RetryInSeconds int    `json:"retry_in_seconds"`
	}{
		Error:          err.Error(),
		RetryInSeconds: int(retryIn.Seconds()),
	}
	_ = json.NewEncoder(r.out).Encode(document)
}
