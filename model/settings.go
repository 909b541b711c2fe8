package model

import "time"

// PricingTable holds the static rates used to turn usage into money.
// All rates are in USD.
type PricingTable struct {
	StoragePerGBMonth    float64 `json:"storage_per_gb_month"`
	PutPer1000           float64 `json:"put_per_1000"`
	GetPer1000           float64 `json:"get_per_1000"`
	InvocationPerMillion float64 `json:"invocation_per_million"`
	DurationPerGBSecond  float64 `json:"duration_per_gb_second"`
}

// MonitoringSettings controls the refresh loop
type MonitoringSettings struct {
	RefreshInterval time.Duration
	LookbackHours   int
	CallTimeout     time.Duration
	Workers         int
	ListenAddr      string
}

// Settings is the validated, read-only configuration of the monitor.
// It is built once at startup and passed explicitly to every service.
type Settings struct {
	Region     string
	Bucket     string
	LogLevel   string
	Datafeeds  []Datafeed
	Functions  []ComputeFunction
	Pricing    PricingTable
	Monitoring MonitoringSettings
}

// FunctionsFor returns the functions attributed to the named datafeed,
// in configuration order.
func (s Settings) FunctionsFor(datafeed string) []ComputeFunction {
	var functions []ComputeFunction
	for _, fn := range s.Functions {
		if fn.Datafeed == datafeed {
			functions = append(functions, fn)
		}
	}
	return functions
}

// Datafeed looks up a configured datafeed by name
func (s Settings) Datafeed(name string) (Datafeed, bool) {
	for _, feed := range s.Datafeeds {
		if feed.Name == name {
			return feed, true
		}
	}
	return Datafeed{}, false
}

// UnmatchedFunctions returns the functions whose datafeed is not configured.
// They never appear in any report.
func (s Settings) UnmatchedFunctions() []ComputeFunction {
	known := make(map[string]bool, len(s.Datafeeds))
	for _, feed := range s.Datafeeds {
		known[feed.Name] = true
	}

	var unmatched []ComputeFunction
	for _, fn := range s.Functions {
		if !known[fn.Datafeed] {
			unmatched = append(unmatched, fn)
		}
	}
	return unmatched
}
