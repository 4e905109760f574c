package main

import (
	"context"
	"fmt"
	"github.com/docker/docker/client"
	"github.com/sklirg/cutter/internal/deploy"
	"github.com/sklirg/cutter/internal/domain"
	"github.com/sklirg/cutter/internal/settings"
	"os"
)

const logLimit = 50

func run(ctx context.Context, command string, cfg *settings.Config) error {
	switch command {
	case "build":
		return runBuild(ctx, cfg)
	case "prepare":
		return runPrepare(cfg)
	case "create":
		return runCreate(ctx, cfg)
	case "deploy":
		return runDeploy(ctx, cfg)
	case "invoke":
		return runInvoke(ctx, cfg)
	case "logs":
		return runLogs(cfg)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runBuild(ctx context.Context, cfg *settings.Config) error {
	docker, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return err
	}
	defer docker.Close()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	_, err = deploy.NewBuilder(docker, cfg).Build(ctx, cwd)
	return err
}

func runPrepare(cfg *settings.Config) error {
	_, err := deploy.NewPackager(cfg).Package()
	return err
}

func runCreate(ctx context.Context, cfg *settings.Config) error {
	lambdaApi, err := NewLambdaApi(ctx, cfg)
	if err != nil {
		return err
	}

	_, err = deploy.NewFunctionService(cfg, lambdaApi).Create(ctx)
	return err
}

func runDeploy(ctx context.Context, cfg *settings.Config) error {
	lambdaApi, err := NewLambdaApi(ctx, cfg)
	if err != nil {
		return err
	}

	_, err = deploy.NewFunctionService(cfg, lambdaApi).Deploy(ctx)
	return err
}

func runInvoke(ctx context.Context, cfg *settings.Config) error {
	lambdaApi, err := NewLambdaApi(ctx, cfg)
	if err != nil {
		return err
	}

	event := domain.InvocationEvent{Bucket: cfg.Bucket, Prefix: cfg.Prefix}

	status, err := deploy.NewFunctionService(cfg, lambdaApi).Invoke(ctx, event)
	if err != nil {
		return err
	}

	logger.Infof("Invocation accepted with status %d", status)
	return nil
}

func runLogs(cfg *settings.Config) error {
	lines, err := deploy.NewLogService(cfg, NewCloudWatchLogsApi(cfg)).Tail(logLimit)
	if err != nil {
		return err
	}

	for _, line := range lines {
		fmt.Println(line)
	}

	return nil
}
