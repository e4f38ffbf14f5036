package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wesm/notequery/internal/search"
	"github.com/wesm/notequery/internal/testutil"
)

func testCompiler() *search.Compiler {
	now := time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)
	return &search.Compiler{Now: func() time.Time { return now }, Location: time.UTC}
}

func TestQueryFromArgs(t *testing.T) {
	got, err := queryFromArgs([]string{"tag:a", `intitle:"b c"`}, nil)
	if err != nil {
		t.Fatalf("queryFromArgs() error = %v", err)
	}
	if got != `tag:a intitle:"b c"` {
		t.Errorf("queryFromArgs() = %q", got)
	}

	got, err = queryFromArgs(nil, strings.NewReader("todo:true hello\r\n"))
	if err != nil {
		t.Fatalf("queryFromArgs(stdin) error = %v", err)
	}
	if got != "todo:true hello" {
		t.Errorf("queryFromArgs(stdin) = %q", got)
	}
}

func TestWriteQuery(t *testing.T) {
	q, err := testCompiler().Compile("tag:a -tag:b hello")
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}

	tests := []struct {
		name    string
		opts    outputOptions
		wantHas []string
		wantNot []string
	}{
		{
			name:    "default hides empty fields",
			opts:    outputOptions{},
			wantHas: []string{`Tag names: "a"`, `Negated tag names: "b"`, `Content terms: "hello"`},
			wantNot: []string{"field is empty"},
		},
		{
			name:    "all",
			opts:    outputOptions{ShowEmpty: true},
			wantHas: []string{"Title names: field is empty"},
		},
		{
			name:    "plain",
			opts:    outputOptions{Plain: true},
			wantHas: []string{q.DisplayString()},
		},
		{
			name:    "json",
			opts:    outputOptions{JSON: true},
			wantHas: []string{`"tag": {`, `"required": [`, `"contentTerms": [`},
		},
		{
			name:    "tokens",
			opts:    outputOptions{Plain: true, Tokens: true},
			wantHas: []string{`token: "tag:a"`, `token: "-tag:b"`, `token: "hello"`},
		},
		{
			name:    "json omits tokens listing",
			opts:    outputOptions{JSON: true, Tokens: true},
			wantNot: []string{"token: "},
		},
		{
			name:    "highlight",
			opts:    outputOptions{Text: "say hello there"},
			wantHas: []string{"hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeQuery(&buf, q, tt.opts); err != nil {
				t.Fatalf("writeQuery() error = %v", err)
			}
			out := buf.String()
			for _, s := range tt.wantHas {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.wantNot {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestWriteQuery_NotMatchable(t *testing.T) {
	q, err := testCompiler().Compile("notebook:Work")
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}
	var buf bytes.Buffer
	if err := writeQuery(&buf, q, outputOptions{}); err != nil {
		t.Fatalf("writeQuery() error = %v", err)
	}
	if !strings.Contains(buf.String(), "nothing to match") {
		t.Errorf("expected not-matchable note:\n%s", buf.String())
	}
}

func TestReadBatch(t *testing.T) {
	input := "tag:a\n\n# comment\n  \ncreated:day-1\r\nlast"
	lines, err := readBatch(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readBatch() error = %v", err)
	}
	want := []batchLine{{1, "tag:a"}, {5, "created:day-1"}, {6, "last"}}
	if len(lines) != len(want) {
		t.Fatalf("readBatch() = %+v, want %+v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestCompileBatch(t *testing.T) {
	var lines []batchLine
	for i := 0; i < 50; i++ {
		q := "tag:x"
		if i%10 == 3 {
			q = "todo:true -todo:true"
		}
		lines = append(lines, batchLine{Line: i + 1, Query: q})
	}

	results, err := compileBatch(context.Background(), testCompiler(), lines, 4)
	if err != nil {
		t.Fatalf("compileBatch() error = %v", err)
	}
	if len(results) != len(lines) {
		t.Fatalf("got %d results, want %d", len(results), len(lines))
	}
	for i, r := range results {
		if r.Line != i+1 {
			t.Errorf("results[%d].Line = %d, want %d", i, r.Line, i+1)
		}
		if i%10 == 3 {
			if r.Error == "" || r.Query != nil {
				t.Errorf("results[%d] = %+v, want error", i, r)
			}
			continue
		}
		if r.Error != "" || r.Query == nil || len(r.Query.Tags.Required) != 1 {
			t.Errorf("results[%d] = %+v, want compiled tag query", i, r)
		}
	}
}

func TestCompileBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := compileBatch(ctx, testCompiler(), []batchLine{{1, "a"}, {2, "b"}}, 1)
	if err == nil {
		t.Error("compileBatch() with canceled context should fail")
	}
}

func TestBatchResultJSON(t *testing.T) {
	data, err := json.Marshal(batchResult{Line: 2, Raw: "x", Error: "boom"})
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(data) != `{"line":2,"raw":"x","error":"boom"}` {
		t.Errorf("JSON = %s", data)
	}
}

// runRoot executes the CLI through Execute with home as --home and returns
// stdout and stderr.
func runRoot(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--home", home}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		batchOutput = ""
	})
	err := Execute()
	return stdout.String(), stderr.String(), err
}

func TestExecute_CompileErrorPrintedOnce(t *testing.T) {
	home := testutil.TempDir(t)

	_, stderr, err := runRoot(t, home, "compile", "x", "notebook:late")
	if !errors.Is(err, search.ErrMisplacedNotebookModifier) {
		t.Fatalf("error = %v, want ErrMisplacedNotebookModifier", err)
	}
	if n := strings.Count(stderr, search.ErrMisplacedNotebookModifier.Error()); n != 1 {
		t.Errorf("error reported %d times, want once:\n%s", n, stderr)
	}
	if strings.Contains(stderr, "Error:") {
		t.Errorf("cobra error prefix should be silenced:\n%s", stderr)
	}

	// compile never opens the saved-search database.
	testutil.MustNotExist(t, filepath.Join(home, "notequery.db"))
}

func TestBatchCommand_OutputFile(t *testing.T) {
	home := testutil.TempDir(t)
	in := testutil.WriteFile(t, home, "queries/in.txt", []byte("# notes\ntag:a\n\nintitle:\"b c\" -x\n"))
	outPath := filepath.Join(home, "out.jsonl")

	stdout, _, err := runRoot(t, home, "batch", "--output", outPath, in)
	if err != nil {
		t.Fatalf("batch error = %v", err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing when --output is set", stdout)
	}

	var want strings.Builder
	for _, l := range []batchLine{{2, "tag:a"}, {4, `intitle:"b c" -x`}} {
		q, err := search.Compile(l.Query)
		if err != nil {
			t.Fatalf("Compile(%q) error = %v", l.Query, err)
		}
		data, err := json.Marshal(batchResult{Line: l.Line, Raw: l.Query, Query: q})
		if err != nil {
			t.Fatalf("Marshal error = %v", err)
		}
		want.Write(data)
		want.WriteByte('\n')
	}
	testutil.AssertFileContent(t, outPath, want.String())
}

// TestSavedCommands drives the saved-search subcommands end to end against a
// temporary home directory.
func TestSavedCommands(t *testing.T) {
	home := testutil.TempDir(t)

	run := func(args ...string) (string, error) {
		t.Helper()
		stdout, stderr, err := runRoot(t, home, args...)
		return stdout + stderr, err
	}

	out, err := run("saved", "add", "--", "work", "tag:work", "-todo:true")
	if err != nil {
		t.Fatalf("saved add error = %v\n%s", err, out)
	}
	if !strings.Contains(out, `Saved "work": tag:work -todo:true`) {
		t.Errorf("saved add output = %q", out)
	}

	if _, err := run("saved", "add", "bad", "x", "notebook:late"); err == nil {
		t.Error("saving an invalid query should fail")
	}

	out, err = run("saved", "list")
	if err != nil {
		t.Fatalf("saved list error = %v", err)
	}
	if !strings.Contains(out, "work") || strings.Contains(out, "bad") {
		t.Errorf("saved list output = %q", out)
	}

	out, err = run("saved", "show", "work")
	if err != nil {
		t.Fatalf("saved show error = %v", err)
	}
	if !strings.Contains(out, `Tag names: "work"`) || !strings.Contains(out, "Negated finished todo: true") {
		t.Errorf("saved show output = %q", out)
	}

	if _, err := run("saved", "remove", "work"); err != nil {
		t.Fatalf("saved remove error = %v", err)
	}
	out, err = run("saved", "list")
	if err != nil {
		t.Fatalf("saved list error = %v", err)
	}
	if !strings.Contains(out, "No saved searches.") {
		t.Errorf("saved list after remove = %q", out)
	}

	testutil.MustExist(t, home+"/notequery.db")
}
