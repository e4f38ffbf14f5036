package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wesm/notequery/internal/render"
	"github.com/wesm/notequery/internal/search"
)

type outputOptions struct {
	JSON      bool
	Plain     bool
	ShowEmpty bool
	Tokens    bool
	Text      string
}

var compileOpts outputOptions

var compileCmd = &cobra.Command{
	Use:   "compile [query...]",
	Short: "Compile a search query and print its predicates",
	Long: `Compile a note search query and print the resulting predicates.

The query is taken from the arguments, joined by spaces, or read from stdin
when no arguments are given. Quote the query, or put -- before it, when
it starts with a negated word.

Examples:
  notequery compile 'notebook:Work tag:project created:week-1 -todo:true'
  notequery compile --json 'latitude:12.5 -longitude:3.0'
  echo 'intitle:"weekly plan"' | notequery compile --plain`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().BoolVar(&compileOpts.JSON, "json", false, "print the compiled query as JSON")
	compileCmd.Flags().BoolVar(&compileOpts.Plain, "plain", false, "print the unstyled field-by-field listing")
	compileCmd.Flags().BoolVar(&compileOpts.ShowEmpty, "all", false, "include empty fields and unset flags")
	compileCmd.Flags().BoolVar(&compileOpts.Tokens, "tokens", false, "list the words the query was split into first")
	compileCmd.Flags().StringVar(&compileOpts.Text, "text", "", "highlight the query's content terms in this text")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	queryStr, err := queryFromArgs(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	c, err := newCompiler()
	if err != nil {
		return err
	}
	q, err := c.Compile(queryStr)
	if err != nil {
		return fmt.Errorf("compile %q: %w", queryStr, err)
	}
	logger.Debug("compiled query", "query", queryStr, "matchable", q.IsMatchable())

	return writeQuery(cmd.OutOrStdout(), q, compileOpts)
}

// writeQuery prints q in the format selected by opts.
func writeQuery(w io.Writer, q *search.Query, opts outputOptions) error {
	if opts.Tokens && !opts.JSON {
		for _, tok := range q.Tokens() {
			fmt.Fprintf(w, "token: %s\n", strconv.Quote(tok))
		}
	}

	switch {
	case opts.JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(q); err != nil {
			return fmt.Errorf("encode query: %w", err)
		}
	case opts.Plain:
		if _, err := io.WriteString(w, q.DisplayString()); err != nil {
			return err
		}
	default:
		if _, err := io.WriteString(w, render.Query(q, render.Options{ShowEmpty: opts.ShowEmpty})); err != nil {
			return err
		}
		if !q.IsMatchable() {
			fmt.Fprintln(w, "(query has nothing to match)")
		}
	}

	if opts.Text != "" {
		fmt.Fprintln(w, render.Highlight(opts.Text, q.ContentTerms))
	}
	return nil
}
