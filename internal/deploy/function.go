package deploy

import (
	"context"
	"encoding/json"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/sklirg/cutter/internal/domain"
	"github.com/sklirg/cutter/internal/logging"
	"github.com/sklirg/cutter/internal/settings"
	"os"
)

const (
	functionTimeout = 300
	functionMemory  = 1024
)

// LambdaApi is the subset of the Lambda client used to manage the deployed
// function.
type LambdaApi interface {
	CreateFunction(ctx context.Context, params *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error)
	UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error)
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

type FunctionService struct {
	cfg    *settings.Config
	client LambdaApi
}

func NewFunctionService(cfg *settings.Config, client LambdaApi) *FunctionService {
	return &FunctionService{
		cfg:    cfg,
		client: client,
	}
}

// Create registers the function on the custom runtime with active tracing
// and debug logging enabled, and returns its ARN.
func (service FunctionService) Create(ctx context.Context) (string, error) {
	name, err := service.functionName()
	if err != nil {
		return "", err
	}

	if service.cfg.RoleArn == "" {
		return "", MissingSettingError{flag: "role", env: settings.EnvRoleArn}
	}

	contents, err := os.ReadFile(service.cfg.ZipPath())
	if err != nil {
		return "", CreateError{name: name, base: err}
	}

	output, err := service.client.CreateFunction(ctx, &lambda.CreateFunctionInput{
		FunctionName:  aws.String(name),
		Role:          aws.String(service.cfg.RoleArn),
		Runtime:       types.RuntimeProvidedal2,
		Handler:       aws.String(bootstrapName),
		Code:          &types.FunctionCode{ZipFile: contents},
		TracingConfig: &types.TracingConfig{Mode: types.TracingModeActive},
		Environment: &types.Environment{
			Variables: map[string]string{logging.DebugEnv: "1"},
		},
		Timeout:     aws.Int32(functionTimeout),
		MemorySize:  aws.Int32(functionMemory),
		Description: aws.String("Generates crop variants for gallery images"),
	})
	if err != nil {
		return "", CreateError{name: name, base: err}
	}

	arn := aws.ToString(output.FunctionArn)
	logger.Infof("Created function %s", arn)

	return arn, nil
}

// Deploy replaces the function code with the current zip artifact and
// returns the new code hash.
func (service FunctionService) Deploy(ctx context.Context) (string, error) {
	name, err := service.functionName()
	if err != nil {
		return "", err
	}

	contents, err := os.ReadFile(service.cfg.ZipPath())
	if err != nil {
		return "", DeployError{name: name, base: err}
	}

	output, err := service.client.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
		FunctionName: aws.String(name),
		ZipFile:      contents,
	})
	if err != nil {
		return "", DeployError{name: name, base: err}
	}

	sha := aws.ToString(output.CodeSha256)
	logger.Infof("Deployed %s (code sha256 %s)", name, sha)

	return sha, nil
}

// Invoke fires an asynchronous invocation and returns the accepted status
// code without waiting for the run to finish.
func (service FunctionService) Invoke(ctx context.Context, event domain.InvocationEvent) (int32, error) {
	name, err := service.functionName()
	if err != nil {
		return 0, err
	}

	if err := event.Validate(); err != nil {
		return 0, InvokeError{name: name, base: err}
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return 0, InvokeError{name: name, base: err}
	}

	logger.Infof("Invoking %s with payload %s", name, payload)

	output, err := service.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(name),
		InvocationType: types.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return 0, InvokeError{name: name, base: err}
	}

	return output.StatusCode, nil
}

func (service FunctionService) functionName() (string, error) {
	if service.cfg.FunctionName == "" {
		return "", MissingSettingError{flag: "function-name", env: settings.EnvFunctionName}
	}

	return service.cfg.FunctionName, nil
}
