package exporter

import (
	"net/http"
	"sync"
	"time"

	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	componentStorage  = "s3_storage"
	componentRequests = "s3_requests"
	componentLambda   = "lambda"
)

// PrometheusExporter keeps the latest cycle outcome and exposes it as metrics.
// It satisfies the monitor loop's publisher contract.
type PrometheusExporter struct {
	registry *prometheus.Registry

	feedCost      *prometheus.GaugeVec
	componentCost *prometheus.GaugeVec
	functionCost  *prometheus.GaugeVec
	feedDegraded  *prometheus.GaugeVec
	storageGB     *prometheus.GaugeVec
	grandTotal    prometheus.Gauge
	lastSuccess   prometheus.Gauge
	failures      prometheus.Counter

	mu          sync.RWMutex
	latest      *model.CycleResult
	lastFailure error
	now         func() time.Time
}

// NewPrometheusExporter initializes metrics collectors
func NewPrometheusExporter() *PrometheusExporter {
	reg := prometheus.NewRegistry()

	feedCost := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "etlcost_datafeed_cost_usd",
		Help: "Estimated datafeed cost over the lookback window",
	}, []string{"datafeed"})

	componentCost := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "etlcost_datafeed_component_cost_usd",
		Help: "Estimated datafeed cost over the lookback window, per cost component",
	}, []string{"datafeed", "component"})

	functionCost := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "etlcost_function_cost_usd",
		Help: "Estimated compute function cost over the lookback window",
	}, []string{"datafeed", "function"})

	feedDegraded := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "etlcost_datafeed_degraded",
		Help: "1 when a datafeed report contains figures produced by a fallback",
	}, []string{"datafeed"})

	storageGB := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "etlcost_datafeed_storage_gb",
		Help: "Stored size of a datafeed prefix in GB",
	}, []string{"datafeed"})

	grandTotal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "etlcost_total_cost_usd",
		Help: "Estimated cost of all datafeeds over the lookback window",
	})

	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "etlcost_last_success_timestamp_seconds",
		Help: "Unix time of the last successful refresh cycle",
	})

	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "etlcost_cycle_failures_total",
		Help: "Refresh cycles that failed",
	})

	reg.MustRegister(feedCost, componentCost, functionCost, feedDegraded, storageGB, grandTotal, lastSuccess, failures)

	return &PrometheusExporter{
		registry:      reg,
		feedCost:      feedCost,
		componentCost: componentCost,
		functionCost:  functionCost,
		feedDegraded:  feedDegraded,
		storageGB:     storageGB,
		grandTotal:    grandTotal,
		lastSuccess:   lastSuccess,
		failures:      failures,
		now:           time.Now,
	}
}

// Handler returns the HTTP handler for /metrics
func (p *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Publish copies a cycle result into the metrics and keeps it for /costs
func (p *PrometheusExporter) Publish(result *model.CycleResult) {
	p.feedCost.Reset()
	p.componentCost.Reset()
	p.functionCost.Reset()
	p.feedDegraded.Reset()
	p.storageGB.Reset()

	for _, report := range result.Reports {
		p.feedCost.WithLabelValues(report.Datafeed).Set(report.TotalCost)
		p.componentCost.WithLabelValues(report.Datafeed, componentStorage).Set(report.Storage.ProratedStorageCost)
		p.componentCost.WithLabelValues(report.Datafeed, componentRequests).Set(report.Requests.Total)
		p.componentCost.WithLabelValues(report.Datafeed, componentLambda).Set(report.LambdaTotalCost)
		p.storageGB.WithLabelValues(report.Datafeed).Set(report.Storage.SizeGB)

		degraded := 0.0
		if report.Degraded() {
			degraded = 1
		}
		p.feedDegraded.WithLabelValues(report.Datafeed).Set(degraded)

		for _, fn := range report.Functions {
			p.functionCost.WithLabelValues(report.Datafeed, fn.FunctionName).Set(fn.Total)
		}
	}
	p.grandTotal.Set(result.GrandTotal)
	p.lastSuccess.Set(float64(p.now().Unix()))

	p.mu.Lock()
	p.latest = result
	p.lastFailure = nil
	p.mu.Unlock()
}

// RecordFailure counts a failed cycle. The previous result stays published.
func (p *PrometheusExporter) RecordFailure(err error) {
	p.failures.Inc()

	p.mu.Lock()
	p.lastFailure = err
	p.mu.Unlock()
}

func (p *PrometheusExporter) snapshot() (*model.CycleResult, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest, p.lastFailure
}
