package awscloudwatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/elC0mpa/etl-cost-monitor/model"
)

type statisticsAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

type service struct {
	client      statisticsAPI
	callTimeout time.Duration
	logger      *slog.Logger
}

type MetricService interface {
	SumMetric(ctx context.Context, query model.MetricQuery) model.MetricResult
}
