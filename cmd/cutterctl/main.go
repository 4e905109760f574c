package main

import (
	"context"
	"flag"
	"fmt"
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

const usage = `usage: cutterctl <command> [flags]

Commands:
  build    Compile the function binary in a toolchain container
  prepare  Package the binary as a bootstrap zip for the custom runtime
  create   Create the function with tracing and debug logging enabled
  deploy   Update the function code to the current artifact
  invoke   Invoke the function asynchronously for a bucket and prefix
  logs     Print the latest log events of the function

Run cutterctl <command> -h for the flags of a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	command := os.Args[1]
	if command == "help" || command == "-h" || command == "--help" {
		fmt.Print(usage)
		return
	}

	cfg, output, err := settings.FromFlags("cutterctl "+command, os.Args[2:])
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

	ctx, cancel := context.WithCancel(context.Background())

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		received := <-c
		logger.Infof("Received signal %v", received)
		cancel()
	}()

	if err := run(ctx, command, cfg); err != nil {
		logger.Errorf("%s failed: %v", command, err)
		os.Exit(1)
	}
}
