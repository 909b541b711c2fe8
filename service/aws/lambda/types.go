package awslambda

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

type functionConfigurationAPI interface {
	GetFunctionConfiguration(ctx context.Context, params *lambda.GetFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionConfigurationOutput, error)
}

type service struct {
	client      functionConfigurationAPI
	callTimeout time.Duration
}

type FunctionConfigService interface {
	GetMemoryMB(ctx context.Context, functionName string) (int32, error)
}
