package search

import (
	"slices"
	"strings"
	"time"
)

const (
	notebookModifier = "notebook:"
	anyModifier      = "any:"
)

// Compiler holds the clock and time zone used to resolve relative dates.
// A Compiler has no mutable state and may be shared between goroutines.
type Compiler struct {
	Now      func() time.Time // Time source (mockable for testing)
	Location *time.Location   // Zone for relative dates and zone-less ISO times
}

// NewCompiler creates a Compiler using the wall clock and the local zone.
func NewCompiler() *Compiler {
	return &Compiler{Now: time.Now, Location: time.Local}
}

// Compile compiles a note search query.
//
// Supported syntax:
//   - notebook:name - notebook scope, only as the first word
//   - any: - match notes satisfying any predicate instead of all
//   - tag:, intitle:, resource:, author:, source:, sourceApplication:,
//     contentClass:, placeName:, applicationData:, recoType: - text fields
//   - created:, updated:, subjectDate:, reminderTime:, reminderDoneTime: -
//     ISO 8601 dates or day|week|month|year with an optional offset
//   - reminderOrder: - integer, or * for any reminder
//   - latitude:, longitude:, altitude: - numbers
//   - todo:true, todo:false, todo:*, encryption: - flags
//   - A leading - negates a field, flag or word
//   - Bare words and "quoted phrases" - content terms
//
// On error no partial query is returned.
func (c *Compiler) Compile(queryStr string) (*Query, error) {
	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}

	q := &Query{Raw: queryStr}
	words := Tokenize(queryStr)
	q.tokens = slices.Clone(words)

	words, err := extractModifiers(q, words)
	if err != nil {
		return nil, err
	}

	words, err = resolveDates(words, now, loc)
	if err != nil {
		return nil, err
	}

	for _, f := range fields {
		words, err = f.extract(q, words)
		if err != nil {
			return nil, err
		}
	}

	words, err = extractFlags(q, words)
	if err != nil {
		return nil, err
	}

	for _, w := range words {
		if strings.HasPrefix(w, "-") {
			q.NegatedContentTerms = append(q.NegatedContentTerms, unquote(w[1:]))
		} else {
			q.ContentTerms = append(q.ContentTerms, unescape(w))
		}
	}

	return q, nil
}

// Compile is a convenience function that compiles using default settings.
func Compile(queryStr string) (*Query, error) {
	return NewCompiler().Compile(queryStr)
}

// extractModifiers handles the query-wide notebook: and any: words.
func extractModifiers(q *Query, words []string) ([]string, error) {
	for i, w := range words {
		if !strings.HasPrefix(w, notebookModifier) {
			continue
		}
		if i > 0 {
			return nil, &QueryError{Kind: ErrMisplacedNotebookModifier, Word: w}
		}
	}
	if len(words) > 0 && strings.HasPrefix(words[0], notebookModifier) {
		scope := unquote(words[0][len(notebookModifier):])
		q.NotebookScope = &scope
		words = words[1:]
	}

	for _, w := range words {
		if w == anyModifier {
			q.MatchAny = true
			return removeAll(words, anyModifier), nil
		}
	}
	return words, nil
}
