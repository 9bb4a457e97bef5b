package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"unity-asset-reader/internal/object"
)

var (
	rawOut string
	rawHex bool
)

func init() {
	rawCmd.Flags().StringVar(&rawOut, "out", "", "Write the bytes to this file instead of stdout")
	rawCmd.Flags().BoolVar(&rawHex, "hex", false, "Print a hex dump")
	rootCmd.AddCommand(rawCmd)
}

var rawCmd = &cobra.Command{
	Use:   "raw <container>/<pathID> [paths...]",
	Short: "Dump the exact bytes of one object",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := parseKey(args[0])
		if err != nil {
			return err
		}
		b, _, err := load(cmd, args[1:])
		if err != nil {
			return err
		}
		o, err := find(b, k)
		if err != nil {
			return err
		}
		data, err := b.Raw(b.Key(o))
		if err != nil {
			return err
		}

		switch {
		case rawHex:
			fmt.Println(object.HexPreview(o, len(data)))
		case rawOut != "":
			if err := os.WriteFile(rawOut, data, 0644); err != nil {
				return err
			}
			fmt.Printf("Wrote %d bytes to %s\n", len(data), rawOut)
		default:
			_, err = os.Stdout.Write(data)
		}
		return err
	},
}
