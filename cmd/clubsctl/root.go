package main

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andresdelrio/clubs/internal/bootstrap"
	"github.com/andresdelrio/clubs/pkg/config"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
	"github.com/andresdelrio/clubs/pkg/logger"
)

const maxRetryElapsed = 30 * time.Second

var rootArgs struct {
	Migrate bool
	Verbose bool
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "clubsctl",
		Short:         "Administer club enrollments from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&rootArgs.Migrate, "migrate", false, "apply pending migrations before running the command")
	root.PersistentFlags().BoolVarP(&rootArgs.Verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newMigrateCommand(),
		newImportStudentsCommand(),
		newReportCommand(),
		newEnrollmentsCommand(),
		newAssignCommand(),
	)
	return root
}

// withApp loads configuration, opens the container and hands it to run.
// Connection attempts and Unavailable failures are retried with exponential backoff.
func withApp(cmd *cobra.Command, migrate bool, run func(ctx context.Context, app *bootstrap.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if rootArgs.Verbose {
		cfg.Log.Level = "debug"
	} else if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
	cfg.Log.Format = "console"
	logr, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer logr.Sync() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var app *bootstrap.Container
	err = retry(ctx, logr, func() error {
		var openErr error
		app, openErr = bootstrap.Open(ctx, cfg, logr, bootstrap.Options{Migrate: migrate || rootArgs.Migrate})
		return openErr
	})
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck
	app.Start(ctx)

	return retry(ctx, logr, func() error {
		err := run(ctx, app)
		if err == nil || appErrors.IsKind(err, appErrors.KindUnavailable) {
			return err
		}
		return backoff.Permanent(err)
	})
}

func retry(ctx context.Context, logr *zap.Logger, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxRetryElapsed
	return backoff.RetryNotify(op, backoff.WithContext(policy, ctx), func(err error, wait time.Duration) {
		logr.Warn("retrying", zap.Error(err), zap.Duration("wait", wait))
	})
}
