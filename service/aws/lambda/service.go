package awslambda

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/smithy-go"
	"github.com/elC0mpa/etl-cost-monitor/model"
)

func NewService(awsconfig aws.Config, callTimeout time.Duration) *service {
	return newService(lambda.NewFromConfig(awsconfig), callTimeout)
}

func newService(client functionConfigurationAPI, callTimeout time.Duration) *service {
	return &service{
		client:      client,
		callTimeout: callTimeout,
	}
}

// GetMemoryMB returns the memory size configured on the function.
// Every failure wraps model.ErrFunctionConfigUnavailable.
func (s *service) GetMemoryMB(ctx context.Context, functionName string) (int32, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	output, err := s.client.GetFunctionConfiguration(ctx, &lambda.GetFunctionConfigurationInput{
		FunctionName: aws.String(functionName),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %s (%s): %w", model.ErrFunctionConfigUnavailable, functionName, reason(err), err)
	}
	if output.MemorySize == nil {
		return 0, fmt.Errorf("%w: %s has no memory size", model.ErrFunctionConfigUnavailable, functionName)
	}

	return aws.ToInt32(output.MemorySize), nil
}

func reason(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException":
			return "not found"
		case "AccessDeniedException", "AccessDenied", "UnrecognizedClientException":
			return "unauthorized"
		default:
			return apiErr.ErrorCode()
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "unavailable"
}
