package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"unity-asset-reader/internal/batch"
	"unity-asset-reader/internal/texture"
)

func init() {
	rootCmd.AddCommand(thumbsCmd)
}

var thumbsCmd = &cobra.Command{
	Use:   "thumbs [paths...]",
	Short: "Render WebP thumbnails of every texture and mesh",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, cfg, err := load(cmd, args)
		if err != nil {
			return err
		}

		texIndex := texture.BuildIndex(b)
		jobs := batch.Jobs(b)
		if len(jobs) == 0 {
			fmt.Println("No textures or meshes to render.")
			return nil
		}

		fmt.Printf("Thumbnails: %d objects, %d textures indexed, Workers: %d\n", len(jobs), texIndex.Len(), cfg.Workers)
		fmt.Printf("Output: %s\n", cfg.OutputDir)
		fmt.Println("------------------------------------------------------------")

		start := time.Now()
		results := batch.Run(batch.Config{
			Batch:       b,
			Textures:    texture.NewCache(b, texIndex),
			OutputDir:   cfg.OutputDir,
			ThumbSize:   cfg.ThumbSize,
			Supersample: cfg.Supersample,
			Workers:     cfg.Workers,
		}, jobs)

		fmt.Println("------------------------------------------------------------")
		fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

		var failed []batch.Result
		for _, r := range results {
			if !r.Success {
				failed = append(failed, r)
			}
		}
		fmt.Printf("Rendered: %d/%d\n", len(results)-len(failed), len(results))
		if len(failed) > 0 {
			fmt.Printf("\nFailed (%d):\n", len(failed))
			for _, r := range failed[:min(len(failed), 20)] {
				fmt.Printf("  %s %q: %s\n", r.Key, r.Name, r.Error)
			}
		}

		manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return err
		}
		if err := batch.WriteManifest(manifestPath, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
		} else {
			fmt.Printf("Manifest: %s\n", manifestPath)
		}
		return nil
	},
}
