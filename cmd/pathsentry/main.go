// Command pathsentry is the path-access security filter's CLI entrypoint:
// one-shot check, hook adapter, JSON-RPC proxy, and pack/status/log
// utilities, all wired through internal/cli.
package main

import (
	"fmt"
	"os"

	"github.com/pathsentry/pathsentry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
