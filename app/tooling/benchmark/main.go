// This program mines blocks on an in memory ledger to show the difficulty
// settling around the mine rate.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/app/tooling/benchmark/commands"
	"github.com/ardanlabs/ledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("BENCH")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Blocks int  `conf:"default:1000"`
		Events bool `conf:"default:false"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work mining benchmark",
		},
	}

	const prefix = "BENCH"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// The ledger's events are noisy at this rate so they are only logged
	// when asked for.
	var ev func(v string, args ...any)
	if cfg.Events {
		ev = logger.EventHandler(log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("benchmark", "status", "started", "blocks", cfg.Blocks)

	s, err := commands.Work(ctx, os.Stdout, cfg.Blocks, ev)
	if err != nil {
		return err
	}

	log.Infow("benchmark", "status", "completed", "blocks", s.Blocks, "mean", s.Mean, "stddev", s.StdDev, "difficulty", s.Difficulty)

	return nil
}
