// Command tutorbook manages the records and ledger of a tutoring center.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/tutorbook/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
