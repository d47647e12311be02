package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/ctxlog"
	"github.com/oshokin/ctxlog/internal/version"
)

var (
	// workers is how many concurrent workers to simulate.
	workers int
	// configPath to an optional ctxlog YAML configuration file.
	configPath string

	// rootCmd represents the base command running the demo workload.
	rootCmd = &cobra.Command{
		Use:   "ctxlog-demo",
		Short: "Demonstrate context-aware logging across concurrent workers.",
		Long: `Runs a small concurrent workload that exercises ctxlog end to end.

Each worker receives its own inherited log context, tags it with a
unique worker id, runs a scoped sub-task, and logs along the way. Every
emitted line carries exactly the worker's own context, demonstrating
isolation between concurrently running goroutines.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return run(ctx)
		},
	}
)

// run executes the demo workload until completion or cancellation.
func run(ctx context.Context) error {
	var opts []ctxlog.Option
	if configPath != "" {
		opts = append(opts, ctxlog.WithConfigFile(configPath))
	}

	registry := ctxlog.NewRegistry(opts...)
	log := registry.GetLogger("demo")

	ctx = ctxlog.Inject(ctx)
	if err := ctxlog.SetLogContext(ctx, ctxlog.Fields{"app": "ctxlog-demo"}); err != nil {
		return err
	}

	log.Info(ctx, "starting workers")

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		// Every worker gets an inherited snapshot of the parent context;
		// mutations below never cross between workers.
		workerCtx := ctxlog.Spawn(ctx)

		wg.Add(1)

		go func(id int) {
			defer wg.Done()
			runWorker(workerCtx, registry.GetLogger("demo.worker"), id)
		}(i)
	}

	wg.Wait()
	log.Info(ctx, "all workers finished")

	return nil
}

// runWorker tags its context with the worker id and runs one scoped
// sub-task whose extra context disappears once the scope exits.
func runWorker(ctx context.Context, log *ctxlog.Logger, id int) {
	if err := ctxlog.SetLogContext(ctx, ctxlog.Fields{"worker_id": id}); err != nil {
		log.Errorf(ctx, "tagging context: %v", err)
		return
	}

	log.Info(ctx, "worker started")

	scope, err := ctxlog.LogContext(ctx, ctxlog.Fields{"task": "warmup"})
	if err != nil {
		log.Errorf(ctx, "opening scope: %v", err)
		return
	}

	log.Info(ctx, "running scoped task")
	scope.Exit()

	log.Info(ctx, "worker done")
}

// Execute runs the ctxlog-demo CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 4, "number of concurrent workers to run")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to ctxlog configuration file")
}
