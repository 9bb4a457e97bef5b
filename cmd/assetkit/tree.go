package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"unity-asset-reader/internal/scene"
)

var treeDepth int

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", 0, "Stop below this depth (0 = unlimited)")
	rootCmd.AddCommand(treeCmd)
}

var treeCmd = &cobra.Command{
	Use:   "tree [paths...]",
	Short: "Print the scene hierarchy with world positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := load(cmd, args)
		if err != nil {
			return err
		}
		h := scene.Build(b)
		h.Walk(func(n *scene.Node, depth int) bool {
			if treeDepth > 0 && depth >= treeDepth {
				return false
			}
			p := n.WorldPosition()
			fmt.Printf("%s%s  (%.3g, %.3g, %.3g)  %s\n", strings.Repeat("  ", depth), n.Name(), p[0], p[1], p[2], n.Key)
			return true
		})
		fmt.Printf("%d nodes, %d roots\n", h.Len(), len(h.Roots))
		return nil
	},
}
