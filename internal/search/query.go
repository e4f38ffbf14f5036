// Package search compiles Evernote-style note search queries.
package search

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Value is the set of types a field predicate can hold.
type Value interface {
	string | int64 | float64
}

// Predicate holds the values a note field must match (Required) and the
// values it must not match (Excluded). Order follows the query text.
type Predicate[T Value] struct {
	Required []T `json:"required,omitempty"`
	Excluded []T `json:"excluded,omitempty"`
}

// IsEmpty reports whether neither list has any values.
func (p Predicate[T]) IsEmpty() bool {
	return len(p.Required) == 0 && len(p.Excluded) == 0
}

func (p *Predicate[T]) add(v T, negated bool) {
	if negated {
		p.Excluded = append(p.Excluded, v)
	} else {
		p.Required = append(p.Required, v)
	}
}

// Query is a compiled search query. It is populated once by Compile and is
// read-only afterwards.
type Query struct {
	Raw string `json:"raw"`

	NotebookScope *string `json:"notebook,omitempty"` // leading notebook: modifier
	MatchAny      bool    `json:"any,omitempty"`      // any: modifier, OR all predicates

	Tags              Predicate[string] `json:"tag"`
	Titles            Predicate[string] `json:"intitle"`
	ResourceMimeTypes Predicate[string] `json:"resource"`
	Authors           Predicate[string] `json:"author"`
	Sources           Predicate[string] `json:"source"`
	SourceApps        Predicate[string] `json:"sourceApplication"`
	ContentClasses    Predicate[string] `json:"contentClass"`
	PlaceNames        Predicate[string] `json:"placeName"`
	ApplicationData   Predicate[string] `json:"applicationData"`
	RecognitionTypes  Predicate[string] `json:"recoType"`

	Created          Predicate[int64] `json:"created"`
	Updated          Predicate[int64] `json:"updated"`
	SubjectDate      Predicate[int64] `json:"subjectDate"`
	ReminderTime     Predicate[int64] `json:"reminderTime"`
	ReminderDoneTime Predicate[int64] `json:"reminderDoneTime"`
	ReminderOrder    Predicate[int64] `json:"reminderOrder"`

	Latitude  Predicate[float64] `json:"latitude"`
	Longitude Predicate[float64] `json:"longitude"`
	Altitude  Predicate[float64] `json:"altitude"`

	AnyReminderOrder        bool `json:"anyReminderOrder,omitempty"`        // reminderOrder:*
	NegatedAnyReminderOrder bool `json:"negatedAnyReminderOrder,omitempty"` // -reminderOrder:*

	Unfinished        bool `json:"unfinished,omitempty"`        // todo:false
	NegatedUnfinished bool `json:"negatedUnfinished,omitempty"` // -todo:false
	Finished          bool `json:"finished,omitempty"`          // todo:true
	NegatedFinished   bool `json:"negatedFinished,omitempty"`   // -todo:true
	AnyTodo           bool `json:"anyTodo,omitempty"`           // todo:*
	Encryption        bool `json:"encryption,omitempty"`

	ContentTerms        []string `json:"contentTerms,omitempty"`
	NegatedContentTerms []string `json:"negatedContentTerms,omitempty"`

	tokens []string
}

// Tokens returns the words Raw was split into before any of them were
// consumed.
func (q *Query) Tokens() []string {
	return slices.Clone(q.tokens)
}

// IsEmpty returns true if the query was compiled from an empty string.
func (q *Query) IsEmpty() bool {
	return q.Raw == ""
}

// IsMatchable returns true if the query carries at least one predicate,
// flag or content term. Scope modifiers alone do not count.
func (q *Query) IsMatchable() bool {
	for _, f := range fields {
		if !f.isEmpty(q) {
			return true
		}
	}
	return q.AnyReminderOrder || q.NegatedAnyReminderOrder ||
		q.Unfinished || q.NegatedUnfinished ||
		q.Finished || q.NegatedFinished ||
		q.AnyTodo || q.Encryption ||
		len(q.ContentTerms) > 0 || len(q.NegatedContentTerms) > 0
}

// String returns DisplayString.
func (q *Query) String() string {
	return q.DisplayString()
}

// DisplayString renders every field and flag of the query in a fixed order.
// Empty lists are reported as "field is empty". The output is meant for logs
// and snapshot tests; it is not parseable as a query.
func (q *Query) DisplayString() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Raw query: %q\n", q.Raw)
	if q.NotebookScope != nil {
		fmt.Fprintf(&b, "Notebook scope: %q\n", *q.NotebookScope)
	} else {
		b.WriteString("Notebook scope: not set\n")
	}
	writeFlag(&b, "Match any", q.MatchAny)

	for _, f := range fields {
		f.display(&b, q)
	}

	writeFlag(&b, "Any reminder order", q.AnyReminderOrder)
	writeFlag(&b, "Negated any reminder order", q.NegatedAnyReminderOrder)
	writeFlag(&b, "Unfinished todo", q.Unfinished)
	writeFlag(&b, "Negated unfinished todo", q.NegatedUnfinished)
	writeFlag(&b, "Finished todo", q.Finished)
	writeFlag(&b, "Negated finished todo", q.NegatedFinished)
	writeFlag(&b, "Any todo", q.AnyTodo)
	writeFlag(&b, "Encryption", q.Encryption)

	writeList(&b, "Content terms", q.ContentTerms, strconv.Quote)
	writeList(&b, "Negated content terms", q.NegatedContentTerms, strconv.Quote)

	return b.String()
}

func writeFlag(b *strings.Builder, label string, v bool) {
	fmt.Fprintf(b, "%s: %t\n", label, v)
}

func writeList[T Value](b *strings.Builder, label string, values []T, format func(T) string) {
	if len(values) == 0 {
		fmt.Fprintf(b, "%s: field is empty\n", label)
		return
	}
	items := make([]string, len(values))
	for i, v := range values {
		items[i] = format(v)
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(items, ", "))
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
