package main

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"unity-asset-reader/internal/classid"
)

var selectClasses []int

func init() {
	selectCmd.Flags().IntSliceVarP(&selectClasses, "class", "c", nil, "Only objects of these class IDs")
	rootCmd.AddCommand(selectCmd)
}

var selectCmd = &cobra.Command{
	Use:   "select <jsonpath> [paths...]",
	Short: "Evaluate a JSONPath expression against decoded objects",
	Example: `  assetkit select '$.m_Component[*].component.m_PathID' --class 1 Game_Data
  assetkit select '$.m_Name' -c 28 level0`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := load(cmd, args[1:])
		if err != nil {
			return err
		}
		ids := make([]classid.ID, len(selectClasses))
		for i, c := range selectClasses {
			ids[i] = classid.ID(c)
		}
		matches, err := b.Select(args[0], ids...)
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Printf("%s\t%s\n", b.Key(m.Object), oj.JSON(m.Values))
		}
		fmt.Printf("%d objects matched\n", len(matches))
		return nil
	},
}
