package service

import (
	"context"

	"github.com/elC0mpa/etl-cost-monitor/model"
)

// IdentityService provides the AWS account identity shown in the dashboard header
type IdentityService interface {
	GetAccountInfo(ctx context.Context) (*model.AccountInfo, error)
}

// InventoryService walks the object listing under a key prefix.
// A listing failure is returned as an error wrapping model.ErrInventoryUnavailable.
type InventoryService interface {
	GetStorageSnapshot(ctx context.Context, bucket, prefix string) (model.StorageSnapshot, error)
}

// MetricService sums a windowed metric. It never fails: an unavailable
// metric comes back as a zero MetricResult with Degraded set.
type MetricService interface {
	SumMetric(ctx context.Context, query model.MetricQuery) model.MetricResult
}

// FunctionConfigService looks up the configured memory of a compute function
type FunctionConfigService interface {
	GetMemoryMB(ctx context.Context, functionName string) (int32, error)
}

// CostAggregator builds the per-datafeed cost reports of a refresh cycle
type CostAggregator interface {
	GetDatafeedCosts(ctx context.Context, lookbackHours int) (*model.CycleResult, error)
	GetDatafeedCost(ctx context.Context, datafeed string, lookbackHours int) (*model.CostReport, error)
}
