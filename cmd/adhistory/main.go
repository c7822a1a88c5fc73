// Command adhistory records, queries and purges ad interaction history.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/adhistory/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
