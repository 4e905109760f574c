package main

import (
	"context"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sklirg/cutter/internal/devstack"
	"github.com/sklirg/cutter/internal/settings"
	"github.com/sklirg/cutter/internal/storage"
)

// NewS3Api builds the S3 client, pointed at AWS or at a local endpoint
// when one is configured.
func NewS3Api(cfg *settings.Config) (storage.S3Api, error) {
	endpoint := cfg.S3Endpoint
	if endpoint == "" && cfg.IsLocal {
		endpoint = cfg.MinioUrl()
	}

	if endpoint != "" {
		return s3.NewFromConfig(localConfig(cfg, endpoint), func(options *s3.Options) {
			options.UsePathStyle = true
		}), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// localConfig pins every request to one endpoint and uses the static
// development credentials of the local stack.
func localConfig(cfg *settings.Config, endpoint string) aws.Config {
	return aws.Config{
		Region: cfg.Region,
		EndpointResolverWithOptions: aws.EndpointResolverWithOptionsFunc(
			func(service string, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               endpoint,
					HostnameImmutable: true,
				}, nil
			},
		),
		Credentials: credentials.NewStaticCredentialsProvider(devstack.AccessKey, devstack.SecretKey, ""),
	}
}
