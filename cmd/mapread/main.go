// Command mapread continuously reads 64-bit integers at random offsets from
// a memory-mapped file, demonstrating that reads keep working when the
// backing storage goes away mid-run (shrink the file while it loops).
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Giulio2002/mapread"
)

var flags struct {
	count    uint64
	interval time.Duration
	seed     int64
}

func main() {
	cmd := &cobra.Command{
		Use:           "mapread <file>",
		Short:         "read random 64-bit integers from a memory-mapped file",
		Args:          cobra.ExactArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().Uint64Var(&flags.count, "count", 0, "stop after this many reads (0 = run forever)")
	cmd.Flags().DurationVar(&flags.interval, "interval", 0, "delay between reads")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "random seed (0 = time-based)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	mapread.Install()
	if !mapread.Installed() {
		logger.Warn("fault recovery unavailable; a bad mapped read will be fatal")
	}

	f, err := mapread.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	if f.Len() < 8 {
		return fmt.Errorf("%s holds %d bytes, need at least 8", args[0], f.Len())
	}
	if err := f.AdviseRandom(); err != nil {
		logger.Warn("madvise failed", zap.Error(err))
	}

	seed := flags.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	logger.Info("reading", zap.String("file", args[0]), zap.Int64("size", f.Len()), zap.Int64("seed", seed))

	// Offsets in [0, Len-8]; a faulted read is reported and the loop
	// moves on, it never retries or exits.
	for n := uint64(0); flags.count == 0 || n < flags.count; n++ {
		offset := rng.Int63n(f.Len() - 8 + 1)

		v, err := f.ReadInt64(offset)
		if err != nil {
			logger.Warn("read failed", zap.Int64("offset", offset), zap.Error(err))
		} else {
			logger.Info("read", zap.Int64("offset", offset), zap.Int64("value", v))
		}

		if flags.interval > 0 {
			time.Sleep(flags.interval)
		}
	}
	return nil
}
