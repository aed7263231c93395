// Package main is the entry point for the gomdrules CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaklabco/gomdrules/internal/cli"
	"github.com/yaklabco/gomdrules/internal/logging"
	"github.com/yaklabco/gomdrules/pkg/lint"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, cli.ErrLintIssuesFound) {
		if kind, ok := lint.KindOf(err); ok {
			logger.Error("configuration error", logging.FieldKind, kind, logging.FieldError, err)
		} else {
			logger.Error("command failed", logging.FieldError, err)
		}
	}

	return cli.ExitCode(err)
}
