package pricing

import (
	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/shopspring/decimal"
)

// NewCalculator returns a calculator bound to the given rates
func NewCalculator(table model.PricingTable) *Calculator {
	return &Calculator{table: table}
}

// Round rounds v half away from zero to the given number of decimal places
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Money rounds a monetary amount to MoneyPlaces
func Money(v float64) float64 {
	return Round(v, MoneyPlaces)
}

// StorageCost prices a snapshot for a full month.
// monthly_storage_cost = size_gb * storage_per_gb_month
func (c *Calculator) StorageCost(snapshot model.StorageSnapshot) model.StorageCost {
	return model.StorageCost{
		SizeGB:             Round(snapshot.SizeGB, MoneyPlaces),
		ObjectCount:        snapshot.ObjectCount,
		MonthlyStorageCost: Money(snapshot.SizeGB * c.table.StoragePerGBMonth),
	}
}

// ProrateStorage scales a monthly storage cost down to the lookback window,
// assuming a 30-day month. The result is unrounded.
func ProrateStorage(monthly float64, lookbackHours int) float64 {
	return monthly / daysPerMonth * (float64(lookbackHours) / hoursPerDay)
}

// RequestCost prices put and get request counts. Counts are truncated for
// display only; the cost uses the raw sums.
func (c *Calculator) RequestCost(puts, gets model.MetricResult) model.RequestCost {
	putCost := puts.Value / 1000 * c.table.PutPer1000
	getCost := gets.Value / 1000 * c.table.GetPer1000

	return model.RequestCost{
		PutRequests: int64(puts.Value),
		GetRequests: int64(gets.Value),
		PutCost:     Money(putCost),
		GetCost:     Money(getCost),
		Total:       Money(putCost + getCost),
		PutDegraded: puts.Degraded,
		GetDegraded: gets.Degraded,
	}
}

// FunctionUsage is the raw usage of one compute function in the window
type FunctionUsage struct {
	Name            string
	Invocations     model.MetricResult
	DurationMs      model.MetricResult
	MemoryMB        int32
	MemoryDefaulted bool
}

// FunctionCost prices invocations and GB-seconds of a compute function.
// gb_seconds = (duration_ms/1000) * (memory_mb/1024)
func (c *Calculator) FunctionCost(usage FunctionUsage) model.FunctionCost {
	memoryMB := usage.MemoryMB
	defaulted := usage.MemoryDefaulted
	if memoryMB <= 0 {
		memoryMB = DefaultMemoryMB
		defaulted = true
	}

	gbSeconds := (usage.DurationMs.Value / 1000) * (float64(memoryMB) / 1024)
	invocationCost := usage.Invocations.Value / 1_000_000 * c.table.InvocationPerMillion
	computeCost := gbSeconds * c.table.DurationPerGBSecond

	return model.FunctionCost{
		FunctionName:        usage.Name,
		Invocations:         int64(usage.Invocations.Value),
		DurationMs:          Round(usage.DurationMs.Value, 2),
		MemoryMB:            memoryMB,
		GBSeconds:           Round(gbSeconds, MoneyPlaces),
		InvocationCost:      Money(invocationCost),
		ComputeCost:         Money(computeCost),
		Total:               Money(invocationCost + computeCost),
		InvocationsDegraded: usage.Invocations.Degraded,
		DurationDegraded:    usage.DurationMs.Degraded,
		MemoryDefaulted:     defaulted,
	}
}
