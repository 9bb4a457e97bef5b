package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"unity-asset-reader/internal/schema"
	"unity-asset-reader/internal/unityver"
)

var (
	classesVerbose bool
	classesBuiltin bool
	classesAt      string
)

func init() {
	f := classesCmd.Flags()
	f.BoolVarP(&classesVerbose, "verbose", "v", false, "Print every field of each layout")
	f.BoolVar(&classesBuiltin, "builtin", false, "List the built-in layouts instead of the inputs' inline ones")
	f.StringVar(&classesAt, "at", "", "With --builtin, show the fields read at this engine version")
	rootCmd.AddCommand(classesCmd)
}

var classesCmd = &cobra.Command{
	Use:   "classes [paths...]",
	Short: "List the inline class layouts per engine version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if classesBuiltin {
			var at unityver.Version
			if classesAt != "" {
				v, err := unityver.Parse(classesAt)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				at = v
			}
			printBuiltin(cmd.OutOrStdout(), schema.NewRegistry(), at)
			return nil
		}

		b, _, err := load(cmd, args)
		if err != nil {
			return err
		}

		version := ""
		for _, ct := range b.ClassTrees() {
			if ct.Version != version {
				version = ct.Version
				fmt.Println(version)
			}
			fmt.Printf("  %d %s (%d fields)\n", ct.ClassID, ct.Name, len(ct.Tree.Nodes))
			if !classesVerbose {
				continue
			}
			for _, n := range ct.Tree.Nodes[1:] {
				fmt.Printf("    %s%s %s  // %d bytes\n", strings.Repeat("  ", n.Level-1), n.Type, n.Name, n.ByteSize)
			}
		}
		counts := b.ClassCounts()
		fmt.Printf("%d classes in use\n", len(counts))
		return nil
	},
}

// printBuiltin lists the static layouts. A zero version prints each class's
// blocks with their gates; otherwise the fields read at that version.
func printBuiltin(w io.Writer, r *schema.Registry, at unityver.Version) {
	for _, id := range r.Classes() {
		s, _ := r.Static(id)
		fmt.Fprintf(w, "%4d %s\n", id, s.Name)
		if at.IsZero() {
			for _, b := range s.Blocks {
				printBlock(w, b, "  ")
			}
			continue
		}
		blocks, ok := schema.Active(s.Blocks, at)
		for _, b := range blocks {
			for _, f := range b.Fields {
				printField(w, f, "  ")
			}
		}
		if !ok {
			fmt.Fprintf(w, "  (no layout known past this point for %s)\n", at)
		}
	}
}

func printBlock(w io.Writer, b schema.Block, indent string) {
	if b.Alternatives != nil {
		fmt.Fprintf(w, "%sone of:\n", indent)
		for _, alt := range b.Alternatives {
			printBlock(w, alt, indent+"  ")
		}
		return
	}
	fmt.Fprintf(w, "%s[%s] %d fields\n", indent, b.Gate, len(b.Fields))
}

func printField(w io.Writer, f schema.Field, indent string) {
	if f.Kind == schema.KindAlign {
		return
	}
	typ := f.Type
	if typ == "" {
		typ = f.Kind.String()
	}
	fmt.Fprintf(w, "%s%s %s\n", indent, typ, f.Name)
}
