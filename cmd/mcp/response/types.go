package response

import "time"

// AccountInfo represents cloud account identity
type AccountInfo struct {
	Provider    string `json:"provider"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
}

// DatafeedSummary is the per-feed line of a cost summary
type DatafeedSummary struct {
	Datafeed     string  `json:"datafeed"`
	StorageCost  float64 `json:"storage_cost"`
	RequestCost  float64 `json:"request_cost"`
	LambdaCost   float64 `json:"lambda_cost"`
	TotalCost    float64 `json:"total_cost"`
	SharePercent float64 `json:"share_percent"`
	Degraded     bool    `json:"degraded"`
}

// CostSummary represents the costs of every datafeed over one lookback window
type CostSummary struct {
	GeneratedAt   time.Time         `json:"generated_at"`
	LookbackHours int               `json:"lookback_hours"`
	Currency      string            `json:"currency"`
	Datafeeds     []DatafeedSummary `json:"datafeeds"`
	GrandTotal    float64           `json:"grand_total"`
	MostExpensive string            `json:"most_expensive_datafeed,omitempty"`
}

// FunctionDetail is the compute usage and cost of a single function
type FunctionDetail struct {
	Function    string  `json:"function"`
	Invocations int64   `json:"invocations"`
	DurationMs  float64 `json:"duration_ms"`
	MemoryMB    int32   `json:"memory_mb"`
	GBSeconds   float64 `json:"gb_seconds"`
	Cost        float64 `json:"cost"`
}

// DatafeedDetail is the full breakdown of one datafeed
type DatafeedDetail struct {
	Datafeed            string           `json:"datafeed"`
	LookbackHours       int              `json:"lookback_hours"`
	Currency            string           `json:"currency"`
	SizeGB              float64          `json:"size_gb"`
	ObjectCount         int64            `json:"object_count"`
	MonthlyStorageCost  float64          `json:"monthly_storage_cost"`
	ProratedStorageCost float64          `json:"prorated_storage_cost"`
	PutRequests         int64            `json:"put_requests"`
	GetRequests         int64            `json:"get_requests"`
	RequestCost         float64          `json:"request_cost"`
	Functions           []FunctionDetail `json:"functions"`
	LambdaCost          float64          `json:"lambda_cost"`
	TotalCost           float64          `json:"total_cost"`
	Warnings            []string         `json:"warnings,omitempty"`
}

// DatafeedConfig describes a configured datafeed and its attributed functions
type DatafeedConfig struct {
	Name      string   `json:"name"`
	Prefix    string   `json:"prefix"`
	Functions []string `json:"functions"`
}
