package main

import (
	"fmt"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"unity-asset-reader/internal/graph"
	"unity-asset-reader/internal/object"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <container>/<pathID> [paths...]",
	Short: "Print one object's decoded fields and where its pointers lead",
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

		fmt.Printf("%s  %s %q  %s\n", b.Key(o), o.ClassName(), o.Name(), o.Status)
		if o.Err != nil {
			fmt.Printf("error: %v\n", o.Err)
		}
		for _, w := range o.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		if !o.Typed() {
			fmt.Println(object.HexPreview(o, 256))
			return nil
		}

		fmt.Println(oj.JSON(o.ToMap(), &ojg.Options{Indent: 2, Sort: true}))

		ptrs := o.Fields.Pointers()
		if len(ptrs) == 0 {
			return nil
		}
		fmt.Println("pointers:")
		for _, fp := range ptrs {
			r := b.ResolveFrom(o, fp.Ptr)
			switch r.State {
			case graph.StateResolved:
				fmt.Printf("  %s -> %s %s %q\n", fp.Path, r.Key, r.Target.ClassName(), r.Target.Name())
			default:
				fmt.Printf("  %s -> %s: %v\n", fp.Path, r.State, r.Err)
			}
		}
		return nil
	},
}

// find looks up a key, accepting a container's base name when it is
// unambiguous.
func find(b *graph.Batch, k graph.Key) (*object.Object, error) {
	if o, ok := b.Lookup(k.Container, k.PathID); ok {
		return o, nil
	}
	var match string
	for _, u := range b.Units {
		if graph.BaseName(u.Container.Name) != graph.BaseName(k.Container) {
			continue
		}
		if match != "" {
			return nil, fmt.Errorf("%s: container name is ambiguous", k)
		}
		match = u.Container.Name
	}
	if match != "" {
		if o, ok := b.Lookup(match, k.PathID); ok {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%s: no such object", k)
}
