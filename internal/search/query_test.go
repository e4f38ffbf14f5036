package search

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const emptyDisplay = `Raw query: ""
Notebook scope: not set
Match any: false
Tag names: field is empty
Negated tag names: field is empty
Title names: field is empty
Negated title names: field is empty
Creation timestamps: field is empty
Negated creation timestamps: field is empty
Modification timestamps: field is empty
Negated modification timestamps: field is empty
Resource mime types: field is empty
Negated resource mime types: field is empty
Subject date timestamps: field is empty
Negated subject date timestamps: field is empty
Latitudes: field is empty
Negated latitudes: field is empty
Longitudes: field is empty
Negated longitudes: field is empty
Altitudes: field is empty
Negated altitudes: field is empty
Authors: field is empty
Negated authors: field is empty
Sources: field is empty
Negated sources: field is empty
Source applications: field is empty
Negated source applications: field is empty
Content classes: field is empty
Negated content classes: field is empty
Place names: field is empty
Negated place names: field is empty
Application data: field is empty
Negated application data: field is empty
Reminder orders: field is empty
Negated reminder orders: field is empty
Reminder times: field is empty
Negated reminder times: field is empty
Reminder done times: field is empty
Negated reminder done times: field is empty
Recognition types: field is empty
Negated recognition types: field is empty
Any reminder order: false
Negated any reminder order: false
Unfinished todo: false
Negated unfinished todo: false
Finished todo: false
Negated finished todo: false
Any todo: false
Encryption: false
Content terms: field is empty
Negated content terms: field is empty
`

func TestQuery_DisplayStringEmpty(t *testing.T) {
	var q Query
	if diff := cmp.Diff(emptyDisplay, q.DisplayString()); diff != "" {
		t.Errorf("DisplayString mismatch (-want +got):\n%s", diff)
	}

	compiled := mustCompile(t, "")
	if got := compiled.String(); got != emptyDisplay {
		t.Errorf("compiled empty query renders differently:\n%s", got)
	}
}

func TestQuery_DisplayStringPopulated(t *testing.T) {
	q := mustCompile(t, `notebook:N tag:a tag:b -tag:c latitude:12.5 created:2024-01-15 todo:* encryption: "two words" -skip`)
	out := q.DisplayString()

	wantLines := []string{
		`Raw query: "notebook:N tag:a tag:b -tag:c latitude:12.5 created:2024-01-15 todo:* encryption: \"two words\" -skip"`,
		`Notebook scope: "N"`,
		`Tag names: "a", "b"`,
		`Negated tag names: "c"`,
		`Latitudes: 12.5`,
		`Creation timestamps: 1705276800000`,
		`Any todo: true`,
		`Encryption: true`,
		`Content terms: "two words"`,
		`Negated content terms: "skip"`,
		`Title names: field is empty`,
	}
	lines := strings.Split(out, "\n")
	for _, want := range wantLines {
		found := false
		for _, line := range lines {
			if line == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("DisplayString missing line %q\n%s", want, out)
		}
	}

	if out != q.DisplayString() {
		t.Error("DisplayString is not deterministic")
	}
	if len(lines) != len(strings.Split(emptyDisplay, "\n")) {
		t.Errorf("DisplayString has %d lines, want %d", len(lines), len(strings.Split(emptyDisplay, "\n")))
	}
}

func TestQuery_JSON(t *testing.T) {
	q := mustCompile(t, "notebook:N tag:a -latitude:1.5 todo:true hello")
	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}

	var back Query
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if diff := cmp.Diff(q, &back, cmpopts.IgnoreUnexported(Query{})); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}

	for _, key := range []string{`"notebook":"N"`, `"tag":{"required":["a"]}`, `"latitude":{"excluded":[1.5]}`, `"finished":true`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON %s missing %s", data, key)
		}
	}
}

var sentinels = []error{
	ErrMisplacedNotebookModifier,
	ErrInvalidRelativeDateOffset,
	ErrInvalidAbsoluteDateTime,
	ErrIntegerConversionFailed,
	ErrDoubleConversionFailed,
	ErrConflictingTodoState,
}

func checkCompileOutcome(t *testing.T, c *Compiler, input string) {
	t.Helper()
	q, err := c.Compile(input)
	if err != nil {
		if q != nil {
			t.Errorf("Compile(%q) returned both a query and error %v", input, err)
		}
		for _, s := range sentinels {
			if errors.Is(err, s) {
				return
			}
		}
		t.Errorf("Compile(%q) returned unknown error %v", input, err)
		return
	}
	if q.Raw != input {
		t.Errorf("Compile(%q).Raw = %q", input, q.Raw)
	}
	_ = q.DisplayString()
	_ = q.IsMatchable()
}

// Random printable ASCII, biased towards query syntax, must either compile or
// fail with one of the defined errors.
func TestQuery_Tokens(t *testing.T) {
	q := mustCompile(t, `notebook:Work tag:"my tag" any: -draft tag:"my tag"`)

	want := []string{"notebook:Work", `tag:"my tag"`, "any:", "-draft", `tag:"my tag"`}
	if diff := cmp.Diff(want, q.Tokens()); diff != "" {
		t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
	}

	// Callers get a copy.
	q.Tokens()[0] = "changed"
	if got := q.Tokens()[0]; got != "notebook:Work" {
		t.Errorf("Tokens()[0] = %q after caller mutation", got)
	}

	if got := mustCompile(t, "").Tokens(); len(got) != 0 {
		t.Errorf("empty query Tokens = %q, want none", got)
	}
}

func TestCompile_RandomInputs(t *testing.T) {
	pieces := []string{
		"tag:", "-", "created:", "day", "week-", "month+", "year", "latitude:", "reminderOrder:",
		"*", "todo:", "true", "false", "notebook:", "any:", "encryption:", ":", " ", " ", `\`, "1", "2.5", "x",
	}
	rng := rand.New(rand.NewSource(42))
	c := testCompiler(fixedNow)

	for i := 0; i < 3000; i++ {
		var b strings.Builder
		n := rng.Intn(12)
		for j := 0; j < n; j++ {
			if rng.Intn(4) == 0 {
				b.WriteByte(byte(' ' + rng.Intn('~'-' '+1)))
			} else {
				b.WriteString(pieces[rng.Intn(len(pieces))])
			}
		}
		input := b.String()
		if strings.Count(input, `"`)%2 == 1 {
			input += `"`
		}
		checkCompileOutcome(t, c, input)
	}
}

func FuzzCompile(f *testing.F) {
	for _, seed := range []string{
		"",
		"tag:work",
		`"hello world" -"foo bar"`,
		"notebook:Personal any: created:day-1",
		"reminderOrder:* todo:true -todo:false",
		"latitude:12.5 -longitude:3.0",
		`tag:"a\" b" \\"`,
	} {
		f.Add(seed)
	}
	c := testCompiler(time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC))
	f.Fuzz(func(t *testing.T, input string) {
		checkCompileOutcome(t, c, input)
	})
}
