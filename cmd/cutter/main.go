package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/ATenderholt/dockerlib"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sklirg/cutter/internal/logging"
	"github.com/sklirg/cutter/internal/settings"
	"go.uber.org/zap"
	"os"
	"os/signal"
)

var logger *zap.SugaredLogger

func init() {
	logger = logging.NewLogger()
}

func main() {
	// inside the function runtime there are no flags, only events
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		lambda.Start(NewHandler(settings.DefaultConfig()).Handle)
		return
	}

	cfg, output, err := settings.FromFlags(os.Args[0], os.Args[1:])
	if err == flag.ErrHelp {
		fmt.Println(output)
		os.Exit(2)
	} else if err != nil {
		if output != "" {
			fmt.Println(output)
		}
		logger.Errorf("Unable to parse arguments: %v", err)
		os.Exit(1)
	}

	mainCtx := context.Background()
	ctx, cancel := context.WithCancel(mainCtx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		received := <-c
		logger.Infof("Received signal %v", received)
		cancel()
	}()

	if err := start(ctx, cfg); err != nil {
		os.Exit(1)
	}
}

func start(ctx context.Context, cfg *settings.Config) error {
	logger.Info("Starting up ...")

	if cfg.IsLocal {
		dockerlib.SetLogger(logging.NewLogger().Desugar().Named("dockerlib"))
	}

	app, err := InjectApp(cfg)
	if err != nil {
		logger.Errorf("Unable to initialize application: %v", err)
		return err
	}

	if cfg.IsLocal {
		if err := app.StartStack(ctx); err != nil {
			logger.Errorf("Unable to start local stack: %v", err)
			return err
		}
	}

	if cfg.IsServe {
		if err := app.Start(); err != nil {
			logger.Errorf("Unable to start server: %v", err)
			return err
		}

		<-ctx.Done()

		logger.Info("Shutting down ...")
		return app.Shutdown()
	}

	report, err := app.Run(ctx)
	if err != nil {
		logger.Errorf("Run failed: %v", err)
		if cfg.IsLocal {
			_ = app.Shutdown()
		}
		return err
	}

	logger.Infof("Run %s finished: %d sources, %d variants, %d skipped",
		report.RunId, report.Sources, len(report.Variants), report.Skipped)

	if cfg.IsLocal {
		return app.Shutdown()
	}

	return nil
}
