// Command shell browses the web from the terminal with an in-process
// browser core.
//
// Usage:
//
//	shell [url]
//
// Logs go to the file named by -log, since the terminal belongs to the UI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/asterix/internal/app"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/config"
	"github.com/GriffinCanCode/asterix/internal/infrastructure/logging"
	"github.com/GriffinCanCode/asterix/internal/shell"
)

func main() {
	logPath := flag.String("log", "", "Write logs to this file")
	flag.Parse()

	if err := run(*logPath, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(logPath, startURL string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := logging.NewNop()
	if logPath != "" {
		logger, err = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: cfg.Logging.Development,
			OutputPaths: []string{logPath},
		})
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
	}
	defer logger.Sync()

	core, err := app.New(cfg, logger, app.Options{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := shell.Run(ctx, core.Runtime, shell.Options{
		PreviewChars: cfg.Browser.PreviewChars,
		StartURL:     startURL,
	})

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := core.Close(closeCtx); err != nil {
		logger.Warn("Core shutdown incomplete", zap.Error(err))
	}
	return runErr
}
