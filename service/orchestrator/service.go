package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/elC0mpa/etl-cost-monitor/service"
)

// NewService wires the monitor loop. identityService and publisher are optional.
func NewService(costService service.CostAggregator, identityService service.IdentityService, renderer Renderer, publisher Publisher, monitoring model.MonitoringSettings, logger *slog.Logger) *orchestratorService {
	return &orchestratorService{
		costService:     costService,
		identityService: identityService,
		renderer:        renderer,
		publisher:       publisher,
		interval:        monitoring.RefreshInterval,
		lookbackHours:   monitoring.LookbackHours,
		logger:          logger,
		wait:            sleep,
	}
}

// Run refreshes the dashboard every interval until ctx is cancelled. A failed
// cycle is reported and retried after a normal interval; cancellation is not
// an error.
func (s *orchestratorService) Run(ctx context.Context) error {
	s.resolveAccount(ctx)

	for {
		if ctx.Err() != nil {
			return nil
		}

		if err := s.cycle(ctx, false); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Error("refresh cycle failed",
				slog.String("error", err.Error()),
				slog.Duration("retryIn", s.interval),
			)
			s.renderer.RenderError(err, s.interval)
		}

		if err := s.wait(ctx, s.interval); err != nil {
			return nil
		}
	}
}

// RunOnce performs a single refresh cycle and renders it
func (s *orchestratorService) RunOnce(ctx context.Context) error {
	s.resolveAccount(ctx)
	return s.cycle(ctx, true)
}

func (s *orchestratorService) cycle(ctx context.Context, once bool) error {
	s.renderer.RenderLoading()
	defer s.renderer.StopLoading()

	started := time.Now()
	result, err := s.costService.GetDatafeedCosts(ctx, s.lookbackHours)
	if err != nil {
		if s.publisher != nil && !errors.Is(err, context.Canceled) {
			s.publisher.RecordFailure(err)
		}
		return err
	}

	// An interrupt that lands while the cycle was in flight must not produce
	// a render.
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Debug("refresh cycle complete",
		slog.Int("datafeeds", len(result.Reports)),
		slog.Float64("grandTotal", result.GrandTotal),
		slog.Duration("elapsed", time.Since(started)),
	)

	if s.publisher != nil {
		s.publisher.Publish(result)
	}

	return s.renderer.Render(model.Dashboard{
		AccountID:       s.accountID,
		RefreshInterval: s.interval,
		Once:            once,
		Result:          result,
	})
}

func (s *orchestratorService) resolveAccount(ctx context.Context) {
	if s.identityService == nil || s.accountID != "" {
		return
	}

	info, err := s.identityService.GetAccountInfo(ctx)
	if err != nil {
		s.logger.Warn("could not resolve account id", slog.String("error", err.Error()))
		return
	}
	s.accountID = info.AccountID
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
