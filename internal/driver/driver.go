// Package driver wires the loader, worker pool, and writer into the
// end-to-end CLI pipeline: load the problem, run N workers under a
// wall-clock budget and cooperative cancellation, and persist the winning
// worker's solution.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"github.com/dries007/ProjectAI-CarSharing/internal/anneal"
	"github.com/dries007/ProjectAI-CarSharing/internal/ioformat"
	"github.com/dries007/ProjectAI-CarSharing/internal/metrics"
	"github.com/dries007/ProjectAI-CarSharing/internal/workerpool"
)

// Options captures the CLI-level knobs that drive a single optimisation
// run.
type Options struct {
	InputPath      string
	OutputPath     string
	RuntimeSeconds int // 0 means "run until interrupted"
	Seed           int64
	Threads        int
	MetricsAddr    string // empty disables the metrics server
	Config         anneal.Config
}

// Run executes one full load -> optimise -> save pipeline and returns the
// process exit code the caller should use.
func Run(ctx context.Context, opts Options) int {
	problem, err := ioformat.Load(opts.InputPath)
	if err != nil {
		klog.ErrorS(err, "failed to load problem", "path", opts.InputPath)
		return 1
	}
	klog.InfoS("problem loaded", "requests", len(problem.Requests), "zones", len(problem.Zones), "vehicles", len(problem.Vehicles), "days", problem.Days)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runCtx = installSignalHandler(runCtx, cancel)

	if opts.RuntimeSeconds > 0 {
		var timeoutCancel context.CancelFunc
		runCtx, timeoutCancel = context.WithTimeout(runCtx, time.Duration(opts.RuntimeSeconds)*time.Second)
		defer timeoutCancel()
	}

	if opts.MetricsAddr != "" {
		metricsCtx, stopMetrics := context.WithCancel(context.Background())
		defer stopMetrics()
		go func() {
			if err := metrics.Serve(metricsCtx, opts.MetricsAddr); err != nil {
				klog.ErrorS(err, "metrics server exited", "addr", opts.MetricsAddr)
			}
		}()
		klog.InfoS("metrics server listening", "addr", opts.MetricsAddr)
	}

	threads := opts.Threads
	if threads < 1 {
		threads = 1
	}

	pool := workerpool.New(opts.Config)
	klog.InfoS("starting search", "workers", threads, "seed", opts.Seed, "runtimeSeconds", opts.RuntimeSeconds)

	result, err := pool.Run(runCtx, problem, threads, opts.Seed)
	if err != nil {
		if errors.Is(err, workerpool.ErrNoFeasibleSolution) {
			klog.ErrorS(err, "search finished without a feasible solution")
			return 1
		}
		klog.ErrorS(err, "search failed")
		return 1
	}

	klog.InfoS("search finished", "winningWorker", result.WorkerID, "workers", result.Workers, "cost", result.Best.Cost)

	if err := ioformat.Save(opts.OutputPath, problem, result.Best); err != nil {
		klog.ErrorS(err, "failed to write solution", "path", opts.OutputPath)
		return 1
	}

	fmt.Fprintf(os.Stdout, "wrote solution with cost %d to %s (worker %d of %d)\n", result.Best.Cost, opts.OutputPath, result.WorkerID, result.Workers)
	return 0
}

// installSignalHandler returns a context that is cancelled either when
// parent is cancelled or when the process receives SIGINT/SIGTERM — the
// systems-rewrite substitute for the original's SIGALRM-based
// TimeoutError, generalised to cooperative cancellation via
// context.Context.
func installSignalHandler(parent context.Context, cancel context.CancelFunc) context.Context {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			klog.InfoS("received signal, cancelling workers", "signal", sig)
			cancel()
		case <-parent.Done():
		}
		signal.Stop(sigCh)
	}()

	return parent
}
