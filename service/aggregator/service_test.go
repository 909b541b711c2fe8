package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/google/go-cmp/cmp"
)

type fakeInventory struct {
	snapshots map[string]model.StorageSnapshot
	failing   map[string]error
}

func (f *fakeInventory) GetStorageSnapshot(ctx context.Context, bucket, prefix string) (model.StorageSnapshot, error) {
	if err, ok := f.failing[prefix]; ok {
		return model.StorageSnapshot{}, fmt.Errorf("%w: %w", model.ErrInventoryUnavailable, err)
	}
	return f.snapshots[prefix], nil
}

// fakeMetrics answers by "<metric>/<last dimension value>"
type fakeMetrics struct {
	mu      sync.Mutex
	values  map[string]float64
	failing map[string]bool
	queries []model.MetricQuery
}

func metricKey(metric, dimension string) string {
	return metric + "/" + dimension
}

func (f *fakeMetrics) SumMetric(ctx context.Context, query model.MetricQuery) model.MetricResult {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	key := metricKey(query.MetricName, query.Dimensions[len(query.Dimensions)-1].Value)
	if f.failing[key] {
		return model.MetricResult{Degraded: true, Err: errors.New("metrics not enabled")}
	}
	return model.MetricResult{Value: f.values[key]}
}

type fakeFunctions struct {
	memory map[string]int32
}

func (f *fakeFunctions) GetMemoryMB(ctx context.Context, functionName string) (int32, error) {
	memory, ok := f.memory[functionName]
	if !ok {
		return 0, fmt.Errorf("%w: %s", model.ErrFunctionConfigUnavailable, functionName)
	}
	return memory, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testSettings() model.Settings {
	return model.Settings{
		Region: "us-east-1",
		Bucket: "etl-bucket",
		Datafeeds: []model.Datafeed{
			{Name: "orders", Prefix: "orders/"},
			{Name: "clicks", Prefix: "clicks/"},
		},
		Functions: []model.ComputeFunction{
			{Name: "orders-ingest", Datafeed: "orders"},
			{Name: "clicks-ingest", Datafeed: "clicks"},
			{Name: "legacy-ingest", Datafeed: "retired"},
		},
		Pricing: model.PricingTable{
			StoragePerGBMonth:    0.023,
			PutPer1000:           0.005,
			GetPer1000:           0.0004,
			InvocationPerMillion: 0.20,
			DurationPerGBSecond:  0.0000166667,
		},
		Monitoring: model.MonitoringSettings{
			RefreshInterval: time.Minute,
			LookbackHours:   24,
			Workers:         2,
		},
	}
}

func newTestService(settings model.Settings, inventory *fakeInventory, metrics *fakeMetrics, functions *fakeFunctions) *aggregatorService {
	svc := NewService(settings, inventory, metrics, functions, newTestLogger())
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	return svc
}

func ordersOnly() model.Settings {
	settings := testSettings()
	settings.Datafeeds = settings.Datafeeds[:1]
	return settings
}

func TestGetDatafeedCostsEndToEnd(t *testing.T) {
	inventory := &fakeInventory{snapshots: map[string]model.StorageSnapshot{
		"orders/": {SizeGB: 10, ObjectCount: 1200},
	}}
	metrics := &fakeMetrics{values: map[string]float64{
		metricKey(putRequestsMetric, "orders"):        2000,
		metricKey(invocationsMetric, "orders-ingest"): 1_000_000,
		metricKey(durationMetric, "orders-ingest"):    500_000,
	}}
	functions := &fakeFunctions{memory: map[string]int32{"orders-ingest": 128}}

	result, err := newTestService(ordersOnly(), inventory, metrics, functions).GetDatafeedCosts(context.Background(), 24)
	if err != nil {
		t.Fatalf("GetDatafeedCosts() error = %v", err)
	}
	if len(result.Reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(result.Reports))
	}

	want := model.CostReport{
		Datafeed:    "orders",
		PeriodHours: 24,
		Storage: model.StorageCost{
			SizeGB:              10,
			ObjectCount:         1200,
			MonthlyStorageCost:  0.23,
			ProratedStorageCost: 0.0077,
		},
		Requests: model.RequestCost{
			PutRequests: 2000,
			PutCost:     0.01,
			Total:       0.01,
		},
		Functions: []model.FunctionCost{
			{
				FunctionName:   "orders-ingest",
				Invocations:    1_000_000,
				DurationMs:     500_000,
				MemoryMB:       128,
				GBSeconds:      62.5,
				InvocationCost: 0.20,
				ComputeCost:    0.0010,
				Total:          0.2010,
			},
		},
		LambdaTotalCost: 0.2010,
		TotalCost:       0.2187,
	}
	if diff := cmp.Diff(want, result.Reports[0]); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
	if result.GrandTotal != 0.2187 {
		t.Errorf("GrandTotal = %v, want 0.2187", result.GrandTotal)
	}
}

func TestGetDatafeedCostsKeepsConfigurationOrder(t *testing.T) {
	settings := testSettings()
	settings.Datafeeds = []model.Datafeed{
		{Name: "small", Prefix: "small/"},
		{Name: "huge", Prefix: "huge/"},
		{Name: "medium", Prefix: "medium/"},
	}
	settings.Monitoring.Workers = 3
	inventory := &fakeInventory{snapshots: map[string]model.StorageSnapshot{
		"small/":  {SizeGB: 1},
		"huge/":   {SizeGB: 1000},
		"medium/": {SizeGB: 100},
	}}

	result, err := newTestService(settings, inventory, &fakeMetrics{}, &fakeFunctions{}).GetDatafeedCosts(context.Background(), 24)
	if err != nil {
		t.Fatalf("GetDatafeedCosts() error = %v", err)
	}

	var got []string
	for _, report := range result.Reports {
		got = append(got, report.Datafeed)
	}
	if diff := cmp.Diff([]string{"small", "huge", "medium"}, got); diff != "" {
		t.Errorf("feed order mismatch (-want +got):\n%s", diff)
	}
}

func TestGetDatafeedCostsAttributesFunctionsToTheirFeed(t *testing.T) {
	functions := &fakeFunctions{memory: map[string]int32{
		"orders-ingest": 256,
		"clicks-ingest": 256,
		"legacy-ingest": 256,
	}}

	result, err := newTestService(testSettings(), &fakeInventory{}, &fakeMetrics{}, functions).GetDatafeedCosts(context.Background(), 24)
	if err != nil {
		t.Fatalf("GetDatafeedCosts() error = %v", err)
	}

	for _, report := range result.Reports {
		if len(report.Functions) != 1 {
			t.Fatalf("%s has %d functions, want 1", report.Datafeed, len(report.Functions))
		}
		if fn := report.Functions[0].FunctionName; !strings.HasPrefix(fn, report.Datafeed+"-") {
			t.Errorf("%s reports function %s", report.Datafeed, fn)
		}
		for _, fn := range report.Functions {
			if fn.FunctionName == "legacy-ingest" {
				t.Errorf("unmatched function reported under %s", report.Datafeed)
			}
		}
	}
}

func TestGetDatafeedCostsMetricUnavailableDegradesToZero(t *testing.T) {
	inventory := &fakeInventory{snapshots: map[string]model.StorageSnapshot{"orders/": {SizeGB: 10}}}
	metrics := &fakeMetrics{
		values: map[string]float64{metricKey(getRequestsMetric, "orders"): 1000},
		failing: map[string]bool{
			metricKey(putRequestsMetric, "orders"): true,
		},
	}

	result, err := newTestService(ordersOnly(), inventory, metrics, &fakeFunctions{}).GetDatafeedCosts(context.Background(), 24)
	if err != nil {
		t.Fatalf("GetDatafeedCosts() error = %v", err)
	}

	requests := result.Reports[0].Requests
	if requests.PutRequests != 0 || requests.PutCost != 0 {
		t.Errorf("put = %d/%v, want zero", requests.PutRequests, requests.PutCost)
	}
	if !requests.PutDegraded {
		t.Error("PutDegraded = false, want true")
	}
	if requests.GetCost != 0.0004 {
		t.Errorf("GetCost = %v, want 0.0004", requests.GetCost)
	}
	if !result.Reports[0].Degraded() {
		t.Error("report not marked degraded")
	}
}

func TestGetDatafeedCostsMemoryLookupFallback(t *testing.T) {
	metrics := &fakeMetrics{values: map[string]float64{
		metricKey(durationMetric, "orders-ingest"): 1_024_000,
	}}

	result, err := newTestService(ordersOnly(), &fakeInventory{}, metrics, &fakeFunctions{}).GetDatafeedCosts(context.Background(), 24)
	if err != nil {
		t.Fatalf("GetDatafeedCosts() error = %v", err)
	}

	fn := result.Reports[0].Functions[0]
	if fn.MemoryMB != 128 {
		t.Errorf("MemoryMB = %d, want 128", fn.MemoryMB)
	}
	if !fn.MemoryDefaulted {
		t.Error("MemoryDefaulted = false, want true")
	}
	if fn.GBSeconds != 128 {
		t.Errorf("GBSeconds = %v, want 128", fn.GBSeconds)
	}
}

func TestGetDatafeedCostsInventoryFailureAbortsCycle(t *testing.T) {
	denied := errors.New("AccessDenied")
	inventory := &fakeInventory{failing: map[string]error{"clicks/": denied}}

	result, err := newTestService(testSettings(), inventory, &fakeMetrics{}, &fakeFunctions{}).GetDatafeedCosts(context.Background(), 24)
	if result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if !errors.Is(err, model.ErrInventoryUnavailable) {
		t.Fatalf("error = %v, want ErrInventoryUnavailable", err)
	}
	if !strings.Contains(err.Error(), "clicks") {
		t.Errorf("error %q does not name the datafeed", err)
	}
}

func TestGetDatafeedCostsProratesToLookback(t *testing.T) {
	inventory := &fakeInventory{snapshots: map[string]model.StorageSnapshot{"orders/": {SizeGB: 300}}}
	settings := ordersOnly()
	settings.Pricing.StoragePerGBMonth = 0.1

	svc := newTestService(settings, inventory, &fakeMetrics{}, &fakeFunctions{})

	day, err := svc.GetDatafeedCosts(context.Background(), 24)
	if err != nil {
		t.Fatalf("GetDatafeedCosts(24) error = %v", err)
	}
	half, err := svc.GetDatafeedCosts(context.Background(), 12)
	if err != nil {
		t.Fatalf("GetDatafeedCosts(12) error = %v", err)
	}

	if got := day.Reports[0].Storage.ProratedStorageCost; got != 1 {
		t.Errorf("24h prorated = %v, want 1", got)
	}
	if got := half.Reports[0].Storage.ProratedStorageCost; got != 0.5 {
		t.Errorf("12h prorated = %v, want 0.5", got)
	}
	if half.Reports[0].PeriodHours != 12 {
		t.Errorf("PeriodHours = %d, want 12", half.Reports[0].PeriodHours)
	}
	if got := half.Window.End.Sub(half.Window.Start); got != 12*time.Hour {
		t.Errorf("window = %v, want 12h", got)
	}
}

func TestGetDatafeedCostsDefaultsToConfiguredLookback(t *testing.T) {
	settings := ordersOnly()
	settings.Monitoring.LookbackHours = 6

	result, err := newTestService(settings, &fakeInventory{}, &fakeMetrics{}, &fakeFunctions{}).GetDatafeedCosts(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetDatafeedCosts() error = %v", err)
	}
	if result.Reports[0].PeriodHours != 6 {
		t.Errorf("PeriodHours = %d, want 6", result.Reports[0].PeriodHours)
	}
}

func TestGetDatafeedCostsIsIdempotent(t *testing.T) {
	inventory := &fakeInventory{snapshots: map[string]model.StorageSnapshot{
		"orders/": {SizeGB: 12.75, ObjectCount: 99},
		"clicks/": {SizeGB: 0.5, ObjectCount: 7},
	}}
	metrics := &fakeMetrics{values: map[string]float64{
		metricKey(putRequestsMetric, "orders"):        12345,
		metricKey(getRequestsMetric, "clicks"):        777,
		metricKey(invocationsMetric, "clicks-ingest"): 4321,
		metricKey(durationMetric, "clicks-ingest"):    98765.4321,
	}}
	functions := &fakeFunctions{memory: map[string]int32{"clicks-ingest": 1024}}
	svc := NewService(testSettings(), inventory, metrics, functions, newTestLogger())

	first, err := svc.GetDatafeedCosts(context.Background(), 24)
	if err != nil {
		t.Fatalf("first cycle error = %v", err)
	}
	second, err := svc.GetDatafeedCosts(context.Background(), 24)
	if err != nil {
		t.Fatalf("second cycle error = %v", err)
	}

	if diff := cmp.Diff(first.Reports, second.Reports); diff != "" {
		t.Errorf("cycles differ (-first +second):\n%s", diff)
	}
	if first.GrandTotal != second.GrandTotal {
		t.Errorf("grand totals differ: %v vs %v", first.GrandTotal, second.GrandTotal)
	}
}

func TestGetDatafeedCostQueriesRequestMetricsPerFeed(t *testing.T) {
	metrics := &fakeMetrics{}
	svc := newTestService(testSettings(), &fakeInventory{}, metrics, &fakeFunctions{})

	if _, err := svc.GetDatafeedCost(context.Background(), "clicks", 24); err != nil {
		t.Fatalf("GetDatafeedCost() error = %v", err)
	}

	var requestQueries int
	for _, query := range metrics.queries {
		if query.Namespace != s3Namespace {
			continue
		}
		requestQueries++
		want := []model.MetricDimension{
			{Name: bucketDimension, Value: "etl-bucket"},
			{Name: filterDimension, Value: "clicks"},
		}
		if diff := cmp.Diff(want, query.Dimensions); diff != "" {
			t.Errorf("dimensions mismatch (-want +got):\n%s", diff)
		}
		if query.Window.PeriodSeconds != 3600 {
			t.Errorf("PeriodSeconds = %d, want 3600", query.Window.PeriodSeconds)
		}
	}
	if requestQueries != 2 {
		t.Errorf("request metric queries = %d, want 2", requestQueries)
	}
}

func TestGetDatafeedCostUnknownFeed(t *testing.T) {
	svc := newTestService(testSettings(), &fakeInventory{}, &fakeMetrics{}, &fakeFunctions{})

	_, err := svc.GetDatafeedCost(context.Background(), "nope", 24)
	if !errors.Is(err, model.ErrUnknownDatafeed) {
		t.Fatalf("error = %v, want ErrUnknownDatafeed", err)
	}
}
