// dashctl inspects the FacturaFlow dashboard from the command line
//
// Usage:
//
//	dashctl snapshot
//	dashctl snapshot --json
//	dashctl seed
//	dashctl version
package main

import (
	"fmt"
	"os"

	"github.com/facturaflow/dashboard/cmd/dashctl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
