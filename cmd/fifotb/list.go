package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sarchlab/fifotb/tb"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scenarios",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		t := table.NewWriter()
		t.AppendHeader(table.Row{"Scenario", "Description"})

		for _, s := range tb.Scenarios() {
			t.AppendRow(table.Row{s.Name, s.Description})
		}

		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	},
}
