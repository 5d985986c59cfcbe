// Command fifotb runs the dual-clock FIFO scenarios against the behavioral
// FIFO and reports which of them pass.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var errScenariosFailed = errors.New("some scenarios failed")

var rootCmd = &cobra.Command{
	Use:           "fifotb",
	Short:         "Verify a dual-clock FIFO with directed scenarios",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	err := rootCmd.Execute()

	switch {
	case errors.Is(err, errScenariosFailed):
		atexit.Exit(1)
	case err != nil:
		fmt.Fprintln(os.Stderr, "fifotb:", err)
		atexit.Exit(2)
	}

	atexit.Exit(0)
}
