package model

import "time"

// MetricPeriodSeconds is the bucket granularity of every metric query
const MetricPeriodSeconds int32 = 3600

// MaxLookbackHours is the CloudWatch retention of hourly datapoints (455 days)
const MaxLookbackHours = 24 * 455

// MetricWindow is the trailing range metrics are summed over
type MetricWindow struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	PeriodSeconds int32     `json:"period_seconds"`
}

// NewMetricWindow returns the window [now-lookback, now) with hourly buckets
func NewMetricWindow(now time.Time, lookbackHours int) MetricWindow {
	end := now.UTC()
	return MetricWindow{
		Start:         end.Add(-time.Duration(lookbackHours) * time.Hour),
		End:           end,
		PeriodSeconds: MetricPeriodSeconds,
	}
}

// MetricDimension is a single name/value pair of a metric query
type MetricDimension struct {
	Name  string
	Value string
}

// MetricQuery describes a windowed sum over one metric
type MetricQuery struct {
	Namespace  string
	MetricName string
	Dimensions []MetricDimension
	Window     MetricWindow
}

// MetricResult carries a summed metric value. Degraded is set when the
// metrics backend failed and Value was forced to zero.
type MetricResult struct {
	Value    float64
	Degraded bool
	Err      error
}

// StorageSnapshot is the inventory of a feed prefix at the time of the cycle
type StorageSnapshot struct {
	SizeGB      float64
	ObjectCount int64
}

// StorageCost is the storage part of a CostReport
type StorageCost struct {
	SizeGB              float64 `json:"size_gb"`
	ObjectCount         int64   `json:"object_count"`
	MonthlyStorageCost  float64 `json:"monthly_storage_cost"`
	ProratedStorageCost float64 `json:"prorated_storage_cost"`
}

// RequestCost is the request part of a CostReport
type RequestCost struct {
	PutRequests int64   `json:"put_requests"`
	GetRequests int64   `json:"get_requests"`
	PutCost     float64 `json:"put_cost"`
	GetCost     float64 `json:"get_cost"`
	Total       float64 `json:"total_request_cost"`
	PutDegraded bool    `json:"put_degraded,omitempty"`
	GetDegraded bool    `json:"get_degraded,omitempty"`
}

// FunctionCost is the cost of one compute function over the lookback window
type FunctionCost struct {
	FunctionName        string  `json:"function"`
	Invocations         int64   `json:"invocations"`
	DurationMs          float64 `json:"duration_ms"`
	MemoryMB            int32   `json:"memory_mb"`
	GBSeconds           float64 `json:"gb_seconds"`
	InvocationCost      float64 `json:"invocation_cost"`
	ComputeCost         float64 `json:"compute_cost"`
	Total               float64 `json:"total_lambda_cost"`
	InvocationsDegraded bool    `json:"invocations_degraded,omitempty"`
	DurationDegraded    bool    `json:"duration_degraded,omitempty"`
	MemoryDefaulted     bool    `json:"memory_defaulted,omitempty"`
}

// CostReport is the cost of a single datafeed over the lookback window
type CostReport struct {
	Datafeed        string         `json:"datafeed"`
	PeriodHours     int            `json:"period_hours"`
	Storage         StorageCost    `json:"s3_storage"`
	Requests        RequestCost    `json:"s3_requests"`
	Functions       []FunctionCost `json:"lambda_details"`
	LambdaTotalCost float64        `json:"lambda_total_cost"`
	TotalCost       float64        `json:"total_cost"`
}

// Degraded reports whether any figure of the report was produced by a fallback
func (r CostReport) Degraded() bool {
	if r.Requests.PutDegraded || r.Requests.GetDegraded {
		return true
	}
	for _, fn := range r.Functions {
		if fn.InvocationsDegraded || fn.DurationDegraded || fn.MemoryDefaulted {
			return true
		}
	}
	return false
}

// CycleResult is everything a single refresh cycle produced
type CycleResult struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Window      MetricWindow `json:"window"`
	Reports     []CostReport `json:"datafeeds"`
	GrandTotal  float64      `json:"grand_total"`
}

// Dashboard is what the renderer draws after each cycle
type Dashboard struct {
	AccountID       string
	RefreshInterval time.Duration
	Once            bool
	Result          *CycleResult
}
