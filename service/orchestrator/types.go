package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/elC0mpa/etl-cost-monitor/service"
)

// Renderer draws the outcome of each refresh cycle
type Renderer interface {
	RenderLoading()
	StopLoading()
	Render(dashboard model.Dashboard) error
	RenderError(err error, retryIn time.Duration)
}

// Publisher receives every cycle outcome, e.g. to expose it over HTTP
type Publisher interface {
	Publish(result *model.CycleResult)
	RecordFailure(err error)
}

type orchestratorService struct {
	costService     service.CostAggregator
	identityService service.IdentityService
	renderer        Renderer
	publisher       Publisher
	interval        time.Duration
	lookbackHours   int
	logger          *slog.Logger

	accountID string
	wait      func(ctx context.Context, d time.Duration) error
}

type OrchestratorService interface {
	Run(ctx context.Context) error
	RunOnce(ctx context.Context) error
}
