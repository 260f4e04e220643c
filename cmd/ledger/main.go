package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"payments-engine/internal/config"
	"payments-engine/internal/gateway"
	"payments-engine/internal/logging"
	"payments-engine/internal/usecase"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s <transactions.csv> > accounts.csv\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, logger, inputPath, os.Stdout)
	cancel()
	if err != nil {
		logger.Error("replay failed", zap.String("path", inputPath), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, logger *zap.Logger, inputPath string, stdout io.Writer) error {
	eventRepo := gateway.NewCSVEventRepository()
	replayUseCase := usecase.NewReplayUseCase(eventRepo, logger)

	accounts, _, err := replayUseCase.Replay(ctx, inputPath)
	if err != nil {
		return err
	}

	// Buffer the rows so a write failure never leaves partial output.
	var out bytes.Buffer
	if err := gateway.NewCSVAccountWriter(&out).WriteAccounts(accounts); err != nil {
		return fmt.Errorf("failed to generate account report: %w", err)
	}
	if _, err := out.WriteTo(stdout); err != nil {
		return fmt.Errorf("failed to write account report: %w", err)
	}
	return nil
}
