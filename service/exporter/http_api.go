package exporter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// HealthStatus describes the state of the latest refresh cycle
type HealthStatus struct {
	Status      string     `json:"status"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// Router exposes /metrics, /costs and /health
func (p *PrometheusExporter) Router() *httprouter.Router {
	router := httprouter.New()
	router.Handler(http.MethodGet, "/metrics", p.Handler())
	router.GET("/costs", p.costs)
	router.GET("/costs/:datafeed", p.datafeedCost)
	router.GET("/health", p.health)
	return router
}

func (p *PrometheusExporter) costs(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	latest, _ := p.snapshot()
	if latest == nil {
		http.Error(w, "no completed refresh cycle yet", http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, latest)
}

func (p *PrometheusExporter) datafeedCost(w http.ResponseWriter, _ *http.Request, params httprouter.Params) {
	latest, _ := p.snapshot()
	if latest == nil {
		http.Error(w, "no completed refresh cycle yet", http.StatusServiceUnavailable)
		return
	}

	name := params.ByName("datafeed")
	for _, report := range latest.Reports {
		if report.Datafeed == name {
			respondJSON(w, http.StatusOK, report)
			return
		}
	}
	http.Error(w, "unknown datafeed "+name, http.StatusNotFound)
}

func (p *PrometheusExporter) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	latest, lastErr := p.snapshot()

	status := HealthStatus{Status: "ok"}
	code := http.StatusOK
	if latest != nil {
		generatedAt := latest.GeneratedAt
		status.GeneratedAt = &generatedAt
	} else {
		status.Status = "starting"
	}
	if lastErr != nil {
		status.Status = "degraded"
		status.LastError = lastErr.Error()
		if latest == nil {
			code = http.StatusServiceUnavailable
		}
	}
	respondJSON(w, code, status)
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
