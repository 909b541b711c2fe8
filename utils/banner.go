package utils

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/common-nighthawk/go-figure"
	"github.com/jedib0t/go-pretty/v6/text"
)

func DrawBanner(w io.Writer) {
	banner := figure.NewFigure("ETL COST", "", true)
	fmt.Fprint(w, text.FgHiCyan.Sprint(banner.String()))
	fmt.Fprintln(w, text.FgHiBlack.Sprint(" per-datafeed pipeline cost monitor"))
	fmt.Fprintln(w)
}

// NewSpinner returns a stopped spinner writing to w
func NewSpinner(w io.Writer) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " Collecting datafeed costs..."
	return s
}
