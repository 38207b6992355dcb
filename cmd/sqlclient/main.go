// Command sqlclient is a SQL command-line client with an embedded
// DuckDB execution backend.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlclient/internal/cli"
)

func main() {
	// Fatal errors are classified and logged by the dispatcher.
	if err := cli.Dispatch(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
