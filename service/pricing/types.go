package pricing

import "github.com/elC0mpa/etl-cost-monitor/model"

// DefaultMemoryMB is used when a function's memory size cannot be looked up
const DefaultMemoryMB int32 = 128

// MoneyPlaces is the number of decimal places every emitted monetary figure is rounded to
const MoneyPlaces = 4

const (
	daysPerMonth = 30
	hoursPerDay  = 24
)

// Calculator converts usage into cost using a fixed pricing table
type Calculator struct {
	table model.PricingTable
}
