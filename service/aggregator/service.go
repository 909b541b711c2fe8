package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/elC0mpa/etl-cost-monitor/service"
	"github.com/elC0mpa/etl-cost-monitor/service/pricing"
	"golang.org/x/sync/errgroup"
)

func NewService(settings model.Settings, inventory service.InventoryService, metrics service.MetricService, functions service.FunctionConfigService, logger *slog.Logger) *aggregatorService {
	return &aggregatorService{
		settings:   settings,
		inventory:  inventory,
		metrics:    metrics,
		functions:  functions,
		calculator: pricing.NewCalculator(settings.Pricing),
		logger:     logger,
		now:        time.Now,
	}
}

// GetDatafeedCosts builds one report per configured datafeed, in configuration
// order. Feeds are computed concurrently, bounded by the configured worker count.
// A storage listing failure aborts the whole cycle.
func (s *aggregatorService) GetDatafeedCosts(ctx context.Context, lookbackHours int) (*model.CycleResult, error) {
	lookbackHours = s.lookback(lookbackHours)
	generatedAt := s.now().UTC()
	window := model.NewMetricWindow(generatedAt, lookbackHours)

	reports := make([]model.CostReport, len(s.settings.Datafeeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, feed := range s.settings.Datafeeds {
		g.Go(func() error {
			report, err := s.buildReport(gctx, feed, window, lookbackHours)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var grandTotal float64
	for _, report := range reports {
		grandTotal += report.TotalCost
	}

	return &model.CycleResult{
		GeneratedAt: generatedAt,
		Window:      window,
		Reports:     reports,
		GrandTotal:  pricing.Money(grandTotal),
	}, nil
}

// GetDatafeedCost builds the report of a single configured datafeed
func (s *aggregatorService) GetDatafeedCost(ctx context.Context, datafeed string, lookbackHours int) (*model.CostReport, error) {
	feed, ok := s.settings.Datafeed(datafeed)
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownDatafeed, datafeed)
	}

	lookbackHours = s.lookback(lookbackHours)
	window := model.NewMetricWindow(s.now(), lookbackHours)

	report, err := s.buildReport(ctx, feed, window, lookbackHours)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *aggregatorService) buildReport(ctx context.Context, feed model.Datafeed, window model.MetricWindow, lookbackHours int) (model.CostReport, error) {
	snapshot, err := s.inventory.GetStorageSnapshot(ctx, s.settings.Bucket, feed.Prefix)
	if err != nil {
		return model.CostReport{}, fmt.Errorf("datafeed %s: %w", feed.Name, err)
	}
	storage := s.calculator.StorageCost(snapshot)

	requestDimensions := []model.MetricDimension{
		{Name: bucketDimension, Value: s.settings.Bucket},
		{Name: filterDimension, Value: feed.Name},
	}
	puts := s.metrics.SumMetric(ctx, model.MetricQuery{
		Namespace:  s3Namespace,
		MetricName: putRequestsMetric,
		Dimensions: requestDimensions,
		Window:     window,
	})
	gets := s.metrics.SumMetric(ctx, model.MetricQuery{
		Namespace:  s3Namespace,
		MetricName: getRequestsMetric,
		Dimensions: requestDimensions,
		Window:     window,
	})
	requests := s.calculator.RequestCost(puts, gets)

	functions := make([]model.FunctionCost, 0)
	var lambdaTotal float64
	for _, fn := range s.settings.FunctionsFor(feed.Name) {
		cost := s.functionCost(ctx, fn, window)
		lambdaTotal += cost.Total
		functions = append(functions, cost)
	}

	prorated := pricing.ProrateStorage(storage.MonthlyStorageCost, lookbackHours)
	storage.ProratedStorageCost = pricing.Money(prorated)

	return model.CostReport{
		Datafeed:        feed.Name,
		PeriodHours:     lookbackHours,
		Storage:         storage,
		Requests:        requests,
		Functions:       functions,
		LambdaTotalCost: pricing.Money(lambdaTotal),
		TotalCost:       pricing.Money(prorated + requests.Total + lambdaTotal),
	}, nil
}

func (s *aggregatorService) functionCost(ctx context.Context, fn model.ComputeFunction, window model.MetricWindow) model.FunctionCost {
	dimensions := []model.MetricDimension{
		{Name: functionDimension, Value: fn.Name},
	}
	invocations := s.metrics.SumMetric(ctx, model.MetricQuery{
		Namespace:  lambdaNamespace,
		MetricName: invocationsMetric,
		Dimensions: dimensions,
		Window:     window,
	})
	duration := s.metrics.SumMetric(ctx, model.MetricQuery{
		Namespace:  lambdaNamespace,
		MetricName: durationMetric,
		Dimensions: dimensions,
		Window:     window,
	})

	usage := pricing.FunctionUsage{
		Name:        fn.Name,
		Invocations: invocations,
		DurationMs:  duration,
	}

	memoryMB, err := s.functions.GetMemoryMB(ctx, fn.Name)
	if err != nil {
		s.logger.Warn("could not look up function memory, using default",
			slog.String("function", fn.Name),
			slog.Int("memoryMB", int(pricing.DefaultMemoryMB)),
			slog.String("error", err.Error()),
		)
		memoryMB = pricing.DefaultMemoryMB
		usage.MemoryDefaulted = true
	}
	usage.MemoryMB = memoryMB

	return s.calculator.FunctionCost(usage)
}

func (s *aggregatorService) lookback(hours int) int {
	if hours > 0 {
		return hours
	}
	return s.settings.Monitoring.LookbackHours
}

func (s *aggregatorService) workers() int {
	if s.settings.Monitoring.Workers > 0 {
		return s.settings.Monitoring.Workers
	}
	return 1
}
