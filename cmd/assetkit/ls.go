package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"unity-asset-reader/internal/object"
)

var (
	lsFilter string
	lsOpaque bool
)

func init() {
	lsCmd.Flags().StringVarP(&lsFilter, "filter", "f", "", `Name substring, or "type:<class substring>"`)
	lsCmd.Flags().BoolVar(&lsOpaque, "opaque", false, "List objects without a decoded layout instead")
	rootCmd.AddCommand(lsCmd)
}

var lsCmd = &cobra.Command{
	Use:   "ls [paths...]",
	Short: "List objects with their class, name, size and decode status",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, err := load(cmd, args)
		if err != nil {
			return err
		}

		var objs []*object.Object
		switch {
		case lsOpaque:
			objs = b.Opaque()
		case lsFilter != "":
			objs = b.Filter(lsFilter)
		default:
			objs = b.Objects()
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "OBJECT\tCLASS\tNAME\tSIZE\tSTATUS")
		var total uint64
		for _, o := range objs {
			total += uint64(o.Record.Size)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				b.Key(o), o.ClassName(), o.Name(), humanize.Bytes(uint64(o.Record.Size)), o.Status)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Printf("%s objects, %s\n", humanize.Comma(int64(len(objs))), humanize.Bytes(total))
		return nil
	},
}
