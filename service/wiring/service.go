package wiring

import (
	"context"
	"log/slog"

	"github.com/elC0mpa/etl-cost-monitor/model"
	"github.com/elC0mpa/etl-cost-monitor/service"
	"github.com/elC0mpa/etl-cost-monitor/service/aggregator"
	awscloudwatch "github.com/elC0mpa/etl-cost-monitor/service/aws/cloudwatch"
	awsconfig "github.com/elC0mpa/etl-cost-monitor/service/aws/config"
	awslambda "github.com/elC0mpa/etl-cost-monitor/service/aws/lambda"
	awss3 "github.com/elC0mpa/etl-cost-monitor/service/aws/s3"
	awssts "github.com/elC0mpa/etl-cost-monitor/service/aws/sts"
)

// Services are the collaborators shared by the dashboard and the MCP server
type Services struct {
	Aggregator service.CostAggregator
	Identity   service.IdentityService
}

// NewAWSServices builds the AWS-backed cost aggregator for the configured region
func NewAWSServices(ctx context.Context, settings model.Settings, profile string, logger *slog.Logger) (*Services, error) {
	awsCfg, err := awsconfig.NewService().GetAWSCfg(ctx, settings.Region, profile)
	if err != nil {
		return nil, err
	}

	timeout := settings.Monitoring.CallTimeout
	inventory := awss3.NewService(awsCfg, timeout)
	metrics := awscloudwatch.NewService(awsCfg, timeout, logger)
	functions := awslambda.NewService(awsCfg, timeout)

	return &Services{
		Aggregator: aggregator.NewService(settings, inventory, metrics, functions, logger),
		Identity:   awssts.NewService(awsCfg),
	}, nil
}

// WarnUnmatchedFunctions logs each configured function whose datafeed does
// not exist. Those functions never contribute to a report.
func WarnUnmatchedFunctions(settings model.Settings, logger *slog.Logger) {
	for _, fn := range settings.UnmatchedFunctions() {
		logger.Warn("function is attributed to an unknown datafeed and will be ignored",
			slog.String("function", fn.Name),
			slog.String("datafeed", fn.Datafeed),
		)
	}
}
