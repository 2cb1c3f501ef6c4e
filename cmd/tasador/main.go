// Command tasador is the operations CLI: plate lookups, valuations, roster
// imports and schema migrations.
package main

import (
	"os"

	"github.com/mrcar-cl/tasador/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
