package response

import (
	"fmt"

	"github.com/elC0mpa/etl-cost-monitor/model"
)

const currencyUSD = "USD"

// ConvertAccountInfo converts model.AccountInfo to response.AccountInfo
func ConvertAccountInfo(info *model.AccountInfo) *AccountInfo {
	if info == nil {
		return nil
	}
	return &AccountInfo{
		Provider:    info.Provider,
		AccountID:   info.AccountID,
		AccountName: info.AccountName,
	}
}

// ConvertCycleResult converts a refresh cycle into a cost summary, keeping
// datafeeds in configuration order
func ConvertCycleResult(result *model.CycleResult) *CostSummary {
	if result == nil {
		return nil
	}

	summary := &CostSummary{
		GeneratedAt: result.GeneratedAt,
		Currency:    currencyUSD,
		Datafeeds:   make([]DatafeedSummary, 0, len(result.Reports)),
		GrandTotal:  result.GrandTotal,
	}

	var highest float64
	for _, report := range result.Reports {
		summary.LookbackHours = report.PeriodHours

		var share float64
		if result.GrandTotal > 0 {
			share = report.TotalCost / result.GrandTotal * 100
		}

		summary.Datafeeds = append(summary.Datafeeds, DatafeedSummary{
			Datafeed:     report.Datafeed,
			StorageCost:  report.Storage.ProratedStorageCost,
			RequestCost:  report.Requests.Total,
			LambdaCost:   report.LambdaTotalCost,
			TotalCost:    report.TotalCost,
			SharePercent: share,
			Degraded:     report.Degraded(),
		})

		if report.TotalCost > highest {
			highest = report.TotalCost
			summary.MostExpensive = report.Datafeed
		}
	}

	return summary
}

// ConvertCostReport converts a single datafeed report into its detailed view
func ConvertCostReport(report *model.CostReport) *DatafeedDetail {
	if report == nil {
		return nil
	}

	detail := &DatafeedDetail{
		Datafeed:            report.Datafeed,
		LookbackHours:       report.PeriodHours,
		Currency:            currencyUSD,
		SizeGB:              report.Storage.SizeGB,
		ObjectCount:         report.Storage.ObjectCount,
		MonthlyStorageCost:  report.Storage.MonthlyStorageCost,
		ProratedStorageCost: report.Storage.ProratedStorageCost,
		PutRequests:         report.Requests.PutRequests,
		GetRequests:         report.Requests.GetRequests,
		RequestCost:         report.Requests.Total,
		Functions:           make([]FunctionDetail, 0, len(report.Functions)),
		LambdaCost:          report.LambdaTotalCost,
		TotalCost:           report.TotalCost,
	}

	if report.Requests.PutDegraded {
		detail.Warnings = append(detail.Warnings, "PUT request metric unavailable, counted as zero")
	}
	if report.Requests.GetDegraded {
		detail.Warnings = append(detail.Warnings, "GET request metric unavailable, counted as zero")
	}

	for _, fn := range report.Functions {
		detail.Functions = append(detail.Functions, FunctionDetail{
			Function:    fn.FunctionName,
			Invocations: fn.Invocations,
			DurationMs:  fn.DurationMs,
			MemoryMB:    fn.MemoryMB,
			GBSeconds:   fn.GBSeconds,
			Cost:        fn.Total,
		})

		if fn.InvocationsDegraded {
			detail.Warnings = append(detail.Warnings, fmt.Sprintf("%s: invocation metric unavailable, counted as zero", fn.FunctionName))
		}
		if fn.DurationDegraded {
			detail.Warnings = append(detail.Warnings, fmt.Sprintf("%s: duration metric unavailable, counted as zero", fn.FunctionName))
		}
		if fn.MemoryDefaulted {
			detail.Warnings = append(detail.Warnings, fmt.Sprintf("%s: memory lookup failed, assumed %d MB", fn.FunctionName, fn.MemoryMB))
		}
	}

	return detail
}

// ConvertSettings lists the configured datafeeds with their attributed functions
func ConvertSettings(settings model.Settings) []DatafeedConfig {
	feeds := make([]DatafeedConfig, 0, len(settings.Datafeeds))
	for _, feed := range settings.Datafeeds {
		functions := make([]string, 0)
		for _, fn := range settings.FunctionsFor(feed.Name) {
			functions = append(functions, fn.Name)
		}
		feeds = append(feeds, DatafeedConfig{
			Name:      feed.Name,
			Prefix:    feed.Prefix,
			Functions: functions,
		})
	}
	return feeds
}
