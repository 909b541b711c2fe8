package utils

import (
	"fmt"
	"io"
	"sort"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	ColorRank1 = "#d73027"
	ColorRank2 = "#f46d43"
	ColorRank3 = "#fee08b"
	ColorRank4 = "#abdda4"
	ColorRank5 = "#66c2a5"
	ColorRank6 = "#1a9850"

	fallbackColor = "#4575b4"
	barSlotWidth  = 24
	chartHeight   = 12
)

var defaultStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("#F4D060"))

// DrawShareChart draws one bar per datafeed, sized by its total cost over the
// lookback window. The most expensive feed gets the hottest color.
func DrawShareChart(w io.Writer, reports []model.CostReport) {
	totals := make([]float64, len(reports))
	var sum float64
	for i, report := range reports {
		totals[i] = report.TotalCost
		sum += report.TotalCost
	}

	fmt.Fprintln(w, text.FgHiWhite.Sprint("COST SHARE BY DATAFEED"))
	if sum <= 0 {
		fmt.Fprintln(w, text.FgHiBlack.Sprint(" no cost recorded in this window"))
		fmt.Fprintln(w)
		return
	}

	bc := barchart.New(max(barSlotWidth*len(reports), 40), chartHeight)
	colors := assignRankedColors(totals)

	for idx, report := range reports {
		bc.Push(barchart.BarData{
			Label: fmt.Sprintf("%s %.0f%%", report.Datafeed, report.TotalCost/sum*100),
			Values: []barchart.BarValue{
				{
					Name:  report.Datafeed,
					Value: report.TotalCost,
					Style: lipgloss.NewStyle().Foreground(lipgloss.Color(colors[idx])),
				},
			},
		})
	}

	bc.Draw()
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, defaultStyle.Render(bc.View())))
	fmt.Fprintln(w)
}

// assignRankedColors maps each value to a palette color by descending rank.
// Values ranked past the palette share a neutral color.
func assignRankedColors(values []float64) []string {
	palette := []string{ColorRank1, ColorRank2, ColorRank3, ColorRank4, ColorRank5, ColorRank6}

	order := make([]int, len(values))
	for i := range values {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return values[order[i]] > values[order[j]]
	})

	resultColors := make([]string, len(values))
	for rank, originalIndex := range order {
		if rank < len(palette) {
			resultColors[originalIndex] = palette[rank]
		} else {
			resultColors[originalIndex] = fallbackColor
		}
	}

	return resultColors
}
