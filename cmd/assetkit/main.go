// Command assetkit inspects engine asset containers: listings, decoded
// fields, scene hierarchies, a SQLite catalog and WebP thumbnails.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
