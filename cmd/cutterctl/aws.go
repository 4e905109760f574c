package main

import (
	"context"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	awsv1 "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatchlogs"
	"github.com/sklirg/cutter/internal/deploy"
	"github.com/sklirg/cutter/internal/devstack"
	"github.com/sklirg/cutter/internal/settings"
)

// NewLambdaApi builds the Lambda client, honoring a local endpoint
// override for development.
func NewLambdaApi(ctx context.Context, cfg *settings.Config) (deploy.LambdaApi, error) {
	if cfg.LambdaEndpoint != "" {
		return lambda.NewFromConfig(aws.Config{
			Region: cfg.Region,
			EndpointResolverWithOptions: aws.EndpointResolverWithOptionsFunc(
				func(service string, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:               cfg.LambdaEndpoint,
						HostnameImmutable: true,
					}, nil
				},
			),
			Credentials: credentials.NewStaticCredentialsProvider(devstack.AccessKey, devstack.SecretKey, ""),
		}), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}

	return lambda.NewFromConfig(awsCfg), nil
}

// NewCloudWatchLogsApi builds the client behind the logs command.
func NewCloudWatchLogsApi(cfg *settings.Config) deploy.CloudWatchLogsApi {
	return cloudwatchlogs.New(session.Must(session.NewSession(&awsv1.Config{
		Region: awsv1.String(cfg.Region),
	})))
}
