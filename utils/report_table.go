package utils

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	ruler           = "================================================================================"
	subRuler        = "--------------------------------------------------------------------------------"
	degradedMarker  = "*"
)

// DrawDashboard writes a complete refresh of the cost dashboard to w
func DrawDashboard(w io.Writer, dashboard model.Dashboard) {
	result := dashboard.Result

	drawHeader(w, dashboard.AccountID, result.GeneratedAt)
	DrawSummaryTable(w, result.Reports, result.Window)
	DrawShareChart(w, result.Reports)

	for _, report := range result.Reports {
		drawFeedBreakdown(w, report)
	}

	fmt.Fprintf(w, "\n%s\n", text.FgHiBlue.Sprint(ruler))
	fmt.Fprintf(w, "TOTAL COST (All Datafeeds): %s\n", text.FgHiGreen.Sprint(formatMoney(result.GrandTotal)))
	fmt.Fprintln(w, text.FgHiBlue.Sprint(ruler))

	if !dashboard.Once {
		fmt.Fprintf(w, "\nNext refresh in %d seconds... (Press Ctrl+C to exit)\n", int(dashboard.RefreshInterval.Seconds()))
	}
}

func drawHeader(w io.Writer, accountID string, generatedAt time.Time) {
	fmt.Fprintln(w, text.FgHiBlue.Sprint(ruler))
	fmt.Fprintf(w, "%s - %s\n", text.FgHiWhite.Sprint("ETL Pipeline Cost Monitor"), generatedAt.Local().Format(timestampLayout))
	if accountID != "" {
		fmt.Fprintf(w, " Account ID: %s\n", text.FgBlue.Sprint(accountID))
	}
	fmt.Fprintln(w, text.FgHiBlue.Sprint(ruler))
	fmt.Fprintln(w)
}

// DrawSummaryTable writes one row per datafeed with its storage, request,
// compute and total cost.
func DrawSummaryTable(w io.Writer, reports []model.CostReport, window model.MetricWindow) {
	hours := int(window.End.Sub(window.Start).Hours())
	fmt.Fprintf(w, "%s\n", text.FgHiWhite.Sprintf("COST SUMMARY (Last %d Hours)", hours))

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Datafeed", "Storage", "Objects", "S3 Requests", "Lambda", "Total Cost"})

	var degraded bool
	for _, report := range reports {
		name := report.Datafeed
		if report.Degraded() {
			degraded = true
			name = text.FgYellow.Sprint(name + degradedMarker)
		}
		tw.AppendRow(table.Row{
			name,
			fmt.Sprintf("%.2f GB", report.Storage.SizeGB),
			report.Storage.ObjectCount,
			formatMoney(report.Requests.Total),
			formatMoney(report.LambdaTotalCost),
			costColor(report.TotalCost).Sprint(formatMoney(report.TotalCost)),
		})
	}

	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	fmt.Fprintln(w, tw.Render())

	if degraded {
		fmt.Fprintf(w, " %s\n", text.FgYellow.Sprintf("%s some figures fell back to zero or default memory, see warnings", degradedMarker))
	}
	fmt.Fprintln(w)
}

func drawFeedBreakdown(w io.Writer, report model.CostReport) {
	fmt.Fprintf(w, "\n%s\n", text.FgHiCyan.Sprintf("%s - DETAILED BREAKDOWN", strings.ToUpper(report.Datafeed)))
	fmt.Fprintln(w, subRuler)

	storage := report.Storage
	fmt.Fprintln(w, "  S3 Storage:")
	fmt.Fprintf(w, "    Size: %.4f GB\n", storage.SizeGB)
	fmt.Fprintf(w, "    Objects: %d\n", storage.ObjectCount)
	fmt.Fprintf(w, "    Monthly Storage Cost: %s\n", formatMoney(storage.MonthlyStorageCost))
	fmt.Fprintf(w, "    Prorated (%dh): %s\n", report.PeriodHours, formatMoney(storage.ProratedStorageCost))

	requests := report.Requests
	fmt.Fprintln(w, "  S3 Requests:")
	fmt.Fprintf(w, "    PUT: %d (%s)%s\n", requests.PutRequests, formatMoney(requests.PutCost), degradedNote(requests.PutDegraded, "metric unavailable"))
	fmt.Fprintf(w, "    GET: %d (%s)%s\n", requests.GetRequests, formatMoney(requests.GetCost), degradedNote(requests.GetDegraded, "metric unavailable"))

	fmt.Fprintln(w, "  Lambda Functions:")
	if len(report.Functions) == 0 {
		fmt.Fprintln(w, "    none attributed")
	}
	for _, fn := range report.Functions {
		fmt.Fprintf(w, "    %s:\n", fn.FunctionName)
		fmt.Fprintf(w, "      Invocations: %d%s\n", fn.Invocations, degradedNote(fn.InvocationsDegraded, "metric unavailable"))
		fmt.Fprintf(w, "      Duration: %.2f ms%s\n", fn.DurationMs, degradedNote(fn.DurationDegraded, "metric unavailable"))
		fmt.Fprintf(w, "      Memory: %d MB%s\n", fn.MemoryMB, degradedNote(fn.MemoryDefaulted, "default"))
		fmt.Fprintf(w, "      GB-Seconds: %.4f\n", fn.GBSeconds)
		fmt.Fprintf(w, "      Cost: %s\n", formatMoney(fn.Total))
	}
}

// DrawCycleError writes the visible notice of a failed refresh cycle
func DrawCycleError(w io.Writer, err error, retryIn time.Duration) {
	fmt.Fprintf(w, "\n %s %s\n", text.FgHiRed.Sprint("⚠"), text.FgRed.Sprintf("Error fetching costs: %v", err))
	fmt.Fprintf(w, " Retrying in %d seconds...\n", int(retryIn.Seconds()))
}

// DrawStartupNotice writes the cadence the monitor was started with
func DrawStartupNotice(w io.Writer, refreshInterval time.Duration, lookbackHours int) {
	fmt.Fprintln(w, "Starting ETL Pipeline Cost Monitor...")
	fmt.Fprintf(w, "Refresh interval: %d seconds\n", int(refreshInterval.Seconds()))
	fmt.Fprintf(w, "Lookback period: %d hours\n", lookbackHours)
	fmt.Fprintln(w)
}

func formatMoney(amount float64) string {
	return fmt.Sprintf("$%.4f", amount)
}

func costColor(amount float64) text.Colors {
	if amount > 0 {
		return text.Colors{text.FgHiGreen}
	}
	return text.Colors{text.FgHiBlack}
}

func degradedNote(degraded bool, reason string) string {
	if !degraded {
		return ""
	}
	return text.FgYellow.Sprintf(" [%s]", reason)
}
