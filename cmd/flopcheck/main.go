// Command flopcheck classifies box office figures against the flop threshold,
// either from literal values or from the movies database.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
