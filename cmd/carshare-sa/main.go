// Command carshare-sa runs the simulated-annealing car-sharing assignment
// optimiser against an input file and writes the winning worker's solution
// to an output file.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/dries007/ProjectAI-CarSharing/internal/config"
	"github.com/dries007/ProjectAI-CarSharing/internal/driver"
)

var (
	metricsAddr string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "carshare-sa <input> <output> [runtime_seconds] [seed] [threads]",
	Short: "Simulated-annealing optimiser for car-sharing vehicle assignment",
	Long: `carshare-sa reads a car-sharing request/zone/vehicle problem file,
searches for a low-cost feasible assignment of requests to vehicles using
parallel simulated annealing, and writes the winning worker's solution.

runtime_seconds defaults to 0, meaning "run until interrupted".
seed defaults to 0, meaning "draw a nondeterministic seed".
threads defaults to 1.`,
	Args: cobra.RangeArgs(2, 5),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "host:port to serve Prometheus metrics on while the search runs (disabled if empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "raise log verbosity (shorthand for klog --v=2)")

	klogFlags := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(klogFlags)
	// pflag gives a one-letter Go flag a matching shorthand, so klog's "v"
	// would claim -v, which already belongs to --verbose; keep it as --v only.
	klogFlags.VisitAll(func(f *goflag.Flag) {
		pf := pflag.PFlagFromGoFlag(f)
		if pf.Name == "v" {
			pf.Shorthand = ""
		}
		rootCmd.PersistentFlags().AddFlag(pf)
	})
}

func main() {
	defer klog.Flush()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		_ = cmd.Flags().Set("v", "2")
	}

	opts := driver.Options{
		InputPath:   args[0],
		OutputPath:  args[1],
		Threads:     1,
		MetricsAddr: metricsAddr,
	}

	if len(args) >= 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("runtime_seconds: %w", err)
		}
		opts.RuntimeSeconds = n
	}
	if len(args) >= 4 {
		n, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		opts.Seed = n
	}
	if len(args) >= 5 {
		n, err := strconv.Atoi(args[4])
		if err != nil {
			return fmt.Errorf("threads: %w", err)
		}
		opts.Threads = n
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	opts.Config = cfg

	code := driver.Run(context.Background(), opts)
	if code != 0 {
		os.Exit(code)
	}
	return nil
}
