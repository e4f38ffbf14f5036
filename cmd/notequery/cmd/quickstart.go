package cmd

import (
	_ "embed"
	"fmt"

	"github.com/spf13/cobra"
)

//go:embed quickstart.md
var quickstartText string

var quickstartCmd = &cobra.Command{
	Use:   "quickstart",
	Short: "Print a quickstart guide to the query syntax",
	Long: `Print a markdown guide to the note search syntax and the notequery
commands.

This is designed for AI agents that do not have MCP access. Pipe the output
into your agent's context to give it full knowledge of the query language.

Example:
  notequery quickstart | pbcopy`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), quickstartText)
	},
}

func init() {
	rootCmd.AddCommand(quickstartCmd)
}
