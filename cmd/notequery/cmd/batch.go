package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wesm/notequery/internal/search"
)

var (
	batchJobs   int
	batchOutput string
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Compile one query per line and print JSON lines",
	Long: `Compile every non-blank line of a file (use - for stdin) as a query.
Lines starting with # are skipped. Each result is printed as one JSON object
in input order; a failing line reports its error without stopping the rest.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write the JSON lines to this file instead of stdout")
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of queries compiled in parallel")
	rootCmd.AddCommand(batchCmd)
}

// batchLine is one query read from the batch input.
type batchLine struct {
	Line  int
	Query string
}

// batchResult is the JSON line written for each query.
type batchResult struct {
	Line  int           `json:"line"`
	Raw   string        `json:"raw"`
	Query *search.Query `json:"query,omitempty"`
	Error string        `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open batch file: %w", err)
		}
		defer f.Close()
		in = f
	}

	lines, err := readBatch(in)
	if err != nil {
		return err
	}

	c, err := newCompiler()
	if err != nil {
		return err
	}
	results, err := compileBatch(cmd.Context(), c, lines, batchJobs)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	var buffered *bufio.Writer
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return fmt.Errorf("create batch output: %w", err)
		}
		defer f.Close()
		buffered = bufio.NewWriter(f)
		out = buffered
	}

	enc := json.NewEncoder(out)
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}
	if buffered != nil {
		if err := buffered.Flush(); err != nil {
			return fmt.Errorf("write batch output: %w", err)
		}
	}
	logger.Info("batch compiled", "queries", len(results), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed to compile", failed, len(results))
	}
	return nil
}

// readBatch reads non-blank, non-comment lines from r.
func readBatch(r io.Reader) ([]batchLine, error) {
	var lines []batchLine
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimRight(scanner.Text(), "\r")
		if trimmed := strings.TrimSpace(text); trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, batchLine{Line: n, Query: search.Normalize(text)})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch input: %w", err)
	}
	return lines, nil
}

// compileBatch compiles lines with at most jobs goroutines. Results keep the
// input order. Only context cancellation makes it return an error.
func compileBatch(ctx context.Context, c *search.Compiler, lines []batchLine, jobs int) ([]batchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs < 1 {
		jobs = 1
	}
	results := make([]batchResult, len(lines))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, l := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := batchResult{Line: l.Line, Raw: l.Query}
			q, err := c.Compile(l.Query)
			if err != nil {
				r.Error = err.Error()
			} else {
				r.Query = q
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
