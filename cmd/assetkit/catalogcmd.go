package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"unity-asset-reader/internal/catalog"
)

var catalogDB string

func init() {
	catalogCmd.Flags().StringVar(&catalogDB, "db", "", "SQLite file to create (default: <output>/catalog.db)")
	rootCmd.AddCommand(catalogCmd)
}

var catalogCmd = &cobra.Command{
	Use:   "catalog [paths...]",
	Short: "Write a SQLite catalog of objects, externals and pointers",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, cfg, err := load(cmd, args)
		if err != nil {
			return err
		}
		dbPath := cfg.Catalog
		if catalogDB != "" {
			dbPath = catalogDB
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return err
		}
		if err := catalog.Write(cmd.Context(), dbPath, b); err != nil {
			return err
		}

		db, err := catalog.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		for _, table := range []string{"containers", "objects", "externals", "pointers"} {
			n, err := db.Count(cmd.Context(), table)
			if err != nil {
				return err
			}
			fmt.Printf("  %-10s %s\n", table, humanize.Comma(int64(n)))
		}
		fmt.Printf("Catalog: %s\n", dbPath)
		return nil
	},
}
