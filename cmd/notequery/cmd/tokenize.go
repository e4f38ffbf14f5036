package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wesm/notequery/internal/search"
)

var tokenizeJSON bool

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [query...]",
	Short: "Show how a query is split into words",
	Long: `Print the words a query is split into, one per line, quoted so that
empty words and embedded spaces are visible.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		queryStr, err := queryFromArgs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		words := search.Tokenize(queryStr)

		out := cmd.OutOrStdout()
		if tokenizeJSON {
			if words == nil {
				words = []string{}
			}
			return json.NewEncoder(out).Encode(words)
		}
		for _, w := range words {
			fmt.Fprintln(out, strconv.Quote(w))
		}
		return nil
	},
}

func init() {
	tokenizeCmd.Flags().BoolVar(&tokenizeJSON, "json", false, "print the words as a JSON array")
	rootCmd.AddCommand(tokenizeCmd)
}
