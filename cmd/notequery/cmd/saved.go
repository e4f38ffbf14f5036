package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage saved searches",
}

var savedAddCmd = &cobra.Command{
	Use:   "add <name> <query...>",
	Short: "Save a query under a name (replaces an existing one)",
	Long: `Save a query under a name, replacing any saved search with that name.
The query must compile. Put -- before the name when the query contains
negated words, so they are not read as flags:

  notequery saved add -- open 'tag:project -todo:true'`,
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		queryStr, err := queryFromArgs(args[1:], nil)
		if err != nil {
			return err
		}
		ss, err := st.SaveSearch(args[0], queryStr)
		if err != nil {
			return err
		}
		logger.Info("saved search", "name", ss.Name, "id", ss.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %q: %s\n", ss.Name, ss.Query)
		return nil
	},
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		searches, err := st.ListSearches()
		if err != nil {
			return err
		}
		if len(searches) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved searches.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tQUERY\tUPDATED")
		for _, ss := range searches {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ss.Name, ss.Query, ss.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var savedShowOpts outputOptions

var savedShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Compile and print a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ss, err := st.GetSearch(args[0])
		if err != nil {
			return err
		}
		c, err := newCompiler()
		if err != nil {
			return err
		}
		q, err := c.Compile(ss.Query)
		if err != nil {
			return fmt.Errorf("compile saved search %q: %w", ss.Name, err)
		}
		return writeQuery(cmd.OutOrStdout(), q, savedShowOpts)
	},
}

var savedRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a saved search",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteSearch(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", strings.TrimSpace(args[0]))
		return nil
	},
}

func init() {
	savedShowCmd.Flags().BoolVar(&savedShowOpts.JSON, "json", false, "print the compiled query as JSON")
	savedShowCmd.Flags().BoolVar(&savedShowOpts.Plain, "plain", false, "print the unstyled field-by-field listing")
	savedShowCmd.Flags().BoolVar(&savedShowOpts.ShowEmpty, "all", false, "include empty fields and unset flags")

	savedCmd.AddCommand(savedAddCmd, savedListCmd, savedShowCmd, savedRemoveCmd)
	rootCmd.AddCommand(savedCmd)
}
