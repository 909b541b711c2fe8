package aggregator

import (
	"log/slog"
	"time"

	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/elC0mpa/etl-cost-monitor/service"
	"github.com/elC0mpa/etl-cost-monitor/service/pricing"
)

const (
	s3Namespace     = "AWS/S3"
	lambdaNamespace = "AWS/Lambda"

	putRequestsMetric = "PutRequests"
	getRequestsMetric = "GetRequests"
	invocationsMetric = "Invocations"
	durationMetric    = "Duration"

	bucketDimension   = "BucketName"
	filterDimension   = "FilterId"
	functionDimension = "FunctionName"
)

type aggregatorService struct {
	settings   model.Settings
	inventory  service.InventoryService
	metrics    service.MetricService
	functions  service.FunctionConfigService
	calculator *pricing.Calculator
	logger     *slog.Logger
	now        func() time.Time
}
