// Command artistlyctl inspects and edits artistly's stored state from the
// command line, using the same configuration as the service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(openState).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
