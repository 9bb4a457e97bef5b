package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"unity-asset-reader/internal/config"
	"unity-asset-reader/internal/graph"
	"unity-asset-reader/internal/ingest"
)

var (
	configPath  string
	workers     int
	versionHint string
	outputDir   string
	quiet       bool
)

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "Path to config.json file")
	f.IntVarP(&workers, "workers", "w", 0, "Number of worker goroutines (default: NumCPU)")
	f.StringVar(&versionHint, "version-hint", "", "Engine version for containers without one, e.g. 5.6.7f1")
	f.StringVarP(&outputDir, "output", "o", "", "Output directory (default: thumbs)")
	f.BoolVarP(&quiet, "quiet", "q", false, "Do not print load summaries")
}

var rootCmd = &cobra.Command{
	Use:           "assetkit",
	Short:         "Read engine asset containers without the engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// settings merges the config file with the persistent flags. Positional
// arguments are input paths when given.
func settings(inputs []string) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	}
	cfg.Resolve(config.Flags{
		Inputs:      inputs,
		OutputDir:   outputDir,
		VersionHint: versionHint,
		Workers:     workers,
	})
	if len(cfg.Inputs) == 0 {
		return cfg, errors.New("no input paths; pass them as arguments or set \"inputs\" in the config")
	}
	return cfg, nil
}

// load reads every input into one batch. Interrupts cancel the load.
func load(cmd *cobra.Command, inputs []string) (*graph.Batch, config.Config, error) {
	cfg, err := settings(inputs)
	if err != nil {
		return nil, cfg, err
	}
	hint, err := cfg.Version()
	if err != nil {
		return nil, cfg, err
	}

	paths := make([]string, len(cfg.Inputs))
	for i, p := range cfg.Inputs {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, cfg, fmt.Errorf("resolve %s: %w", p, err)
		}
		paths[i] = abs
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	res, err := ingest.Paths(ctx, osfs.New("/"), paths, ingest.Options{
		Workers:     cfg.Workers,
		VersionHint: hint,
		Progress:    !quiet,
	})
	if res != nil && !quiet {
		report(res, time.Since(start))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) && res != nil && res.Batch != nil {
			fmt.Fprintln(os.Stderr, "Interrupted; showing the containers that finished.")
			return res.Batch, cfg, nil
		}
		return nil, cfg, err
	}
	return res.Batch, cfg, nil
}

func report(res *ingest.Result, elapsed time.Duration) {
	objects := 0
	if res.Batch != nil {
		objects = res.Batch.Len()
	}
	fmt.Fprintf(os.Stderr, "Loaded %d containers, %d objects in %.1fs\n", len(res.Loaded), objects, elapsed.Seconds())
	if res.Batch != nil {
		if name := res.Batch.ProductName(); name != "" {
			fmt.Fprintf(os.Stderr, "Product: %s\n", name)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped: %s\n", strings.Join(res.Skipped, ", "))
	}
	if len(res.Failures) > 0 {
		fmt.Fprintf(os.Stderr, "Failed (%d):\n", len(res.Failures))
		limit := min(len(res.Failures), 20)
		for _, f := range res.Failures[:limit] {
			fmt.Fprintf(os.Stderr, "  %s: %s: %v\n", f.Name, f.Reason, f.Err)
		}
	}
}

// parseKey reads "<container>/<pathID>"; container names may contain
// slashes, so the last one splits.
func parseKey(s string) (graph.Key, error) {
	i := strings.LastIndex(s, "/")
	if i <= 0 || i == len(s)-1 {
		return graph.Key{}, fmt.Errorf("object %q: want <container>/<pathID>", s)
	}
	id, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return graph.Key{}, fmt.Errorf("object %q: %w", s, err)
	}
	return graph.Key{Container: s[:i], PathID: id}, nil
}
