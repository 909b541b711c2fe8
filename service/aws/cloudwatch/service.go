package awscloudwatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/smithy-go"
	"github.com/elC0mpa/etl-cost-monitor/model"
)

func NewService(awsconfig aws.Config, callTimeout time.Duration, logger *slog.Logger) *service {
	return newService(cloudwatch.NewFromConfig(awsconfig), callTimeout, logger)
}

func newService(client statisticsAPI, callTimeout time.Duration, logger *slog.Logger) *service {
	return &service{
		client:      client,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// SumMetric adds up the hourly Sum datapoints of a metric over the query window.
// Any failure degrades to zero and is logged; it never aborts the caller.
func (s *service) SumMetric(ctx context.Context, query model.MetricQuery) model.MetricResult {
	total, err := s.sum(ctx, query)
	if err != nil {
		// cancelled cycles are discarded by the caller
		level := slog.LevelWarn
		if errors.Is(err, context.Canceled) {
			level = slog.LevelDebug
		}
		s.logger.Log(ctx, level, "could not fetch metric, using zero",
			slog.String("namespace", query.Namespace),
			slog.String("metric", query.MetricName),
			slog.String("reason", errorCode(err)),
			slog.String("error", err.Error()),
		)
		return model.MetricResult{Degraded: true, Err: err}
	}

	return model.MetricResult{Value: total}
}

func (s *service) sum(ctx context.Context, query model.MetricQuery) (float64, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	period := query.Window.PeriodSeconds
	if period == 0 {
		period = model.MetricPeriodSeconds
	}

	out, err := s.client.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(query.Namespace),
		MetricName: aws.String(query.MetricName),
		Dimensions: toDimensions(query.Dimensions),
		StartTime:  aws.Time(query.Window.Start),
		EndTime:    aws.Time(query.Window.End),
		Period:     aws.Int32(period),
		Statistics: []types.Statistic{
			types.StatisticSum,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("GetMetricStatistics for %s/%s: %w", query.Namespace, query.MetricName, err)
	}

	var total float64
	for _, dp := range out.Datapoints {
		total += aws.ToFloat64(dp.Sum)
	}
	return total, nil
}

func toDimensions(dimensions []model.MetricDimension) []types.Dimension {
	result := make([]types.Dimension, 0, len(dimensions))
	for _, d := range dimensions {
		result = append(result, types.Dimension{
			Name:  aws.String(d.Name),
			Value: aws.String(d.Value),
		})
	}
	return result
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "unknown"
}
