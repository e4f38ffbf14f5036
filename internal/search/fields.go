package search

import (
	"fmt"
	"strconv"
	"strings"
)

// extractor pulls one field's values out of the word list.
type extractor interface {
	extract(q *Query, words []string) ([]string, error)
	isEmpty(q *Query) bool
	display(b *strings.Builder, q *Query)
}

// field describes a typed field key such as tag: or latitude:.
type field[T Value] struct {
	key    string
	label  string
	parse  func(string) (T, error)
	format func(T) string
	target func(*Query) *Predicate[T]

	// wildcard, if set, handles a bare * value instead of parse.
	wildcard func(q *Query, negated bool)
}

// fields lists every typed field in display order. Date fields hold epoch
// milliseconds once resolveDates has run.
var fields = []extractor{
	stringField("tag", "Tag names", func(q *Query) *Predicate[string] { return &q.Tags }),
	stringField("intitle", "Title names", func(q *Query) *Predicate[string] { return &q.Titles }),
	intField("created", "Creation timestamps", func(q *Query) *Predicate[int64] { return &q.Created }),
	intField("updated", "Modification timestamps", func(q *Query) *Predicate[int64] { return &q.Updated }),
	stringField("resource", "Resource mime types", func(q *Query) *Predicate[string] { return &q.ResourceMimeTypes }),
	intField("subjectDate", "Subject date timestamps", func(q *Query) *Predicate[int64] { return &q.SubjectDate }),
	floatField("latitude", "Latitudes", func(q *Query) *Predicate[float64] { return &q.Latitude }),
	floatField("longitude", "Longitudes", func(q *Query) *Predicate[float64] { return &q.Longitude }),
	floatField("altitude", "Altitudes", func(q *Query) *Predicate[float64] { return &q.Altitude }),
	stringField("author", "Authors", func(q *Query) *Predicate[string] { return &q.Authors }),
	stringField("source", "Sources", func(q *Query) *Predicate[string] { return &q.Sources }),
	stringField("sourceApplication", "Source applications", func(q *Query) *Predicate[string] { return &q.SourceApps }),
	stringField("contentClass", "Content classes", func(q *Query) *Predicate[string] { return &q.ContentClasses }),
	stringField("placeName", "Place names", func(q *Query) *Predicate[string] { return &q.PlaceNames }),
	stringField("applicationData", "Application data", func(q *Query) *Predicate[string] { return &q.ApplicationData }),
	&field[int64]{
		key:    "reminderOrder",
		label:  "Reminder orders",
		parse:  parseInt,
		format: formatInt,
		target: func(q *Query) *Predicate[int64] { return &q.ReminderOrder },
		wildcard: func(q *Query, negated bool) {
			if negated {
				q.NegatedAnyReminderOrder = true
			} else {
				q.AnyReminderOrder = true
			}
		},
	},
	intField("reminderTime", "Reminder times", func(q *Query) *Predicate[int64] { return &q.ReminderTime }),
	intField("reminderDoneTime", "Reminder done times", func(q *Query) *Predicate[int64] { return &q.ReminderDoneTime }),
	stringField("recoType", "Recognition types", func(q *Query) *Predicate[string] { return &q.RecognitionTypes }),
}

func stringField(key, label string, target func(*Query) *Predicate[string]) *field[string] {
	return &field[string]{key: key, label: label, parse: parseString, format: strconv.Quote, target: target}
}

func intField(key, label string, target func(*Query) *Predicate[int64]) *field[int64] {
	return &field[int64]{key: key, label: label, parse: parseInt, format: formatInt, target: target}
}

func floatField(key, label string, target func(*Query) *Predicate[float64]) *field[float64] {
	return &field[float64]{key: key, label: label, parse: parseFloat, format: formatFloat, target: target}
}

func parseString(s string) (string, error) {
	return s, nil
}

func parseInt(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrIntegerConversionFailed
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrDoubleConversionFailed
	}
	return v, nil
}

// extract consumes every word containing "key:" anywhere in it, not only at
// the start, so tag:xcreated:y also counts as a created: word. The field is
// negated when the character right before the key is a dash; the dash and
// the key are cut out and the rest of the word is the value. All copies of a
// consumed word are removed together.
func (f *field[T]) extract(q *Query, words []string) ([]string, error) {
	marker := f.key + ":"
	pred := f.target(q)
	seen := make(map[string]bool)

	for {
		idx := -1
		for i, w := range words {
			if !seen[w] && strings.Contains(w, marker) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return words, nil
		}

		word := words[idx]
		seen[word] = true

		pos := strings.Index(word, marker)
		negated := pos > 0 && word[pos-1] == '-'
		start := pos
		if negated {
			start--
		}
		value := unquote(word[:start] + word[pos+len(marker):])

		if f.wildcard != nil && value == "*" {
			f.wildcard(q, negated)
			words = removeAll(words, word)
			continue
		}

		v, err := f.parse(value)
		if err != nil {
			return nil, &QueryError{Kind: err, Field: f.key, Word: word, Value: value}
		}
		pred.add(v, negated)
		words = removeAll(words, word)
	}
}

func (f *field[T]) isEmpty(q *Query) bool {
	return f.target(q).IsEmpty()
}

func (f *field[T]) display(b *strings.Builder, q *Query) {
	p := f.target(q)
	writeList(b, f.label, p.Required, f.format)
	writeList(b, fmt.Sprintf("Negated %s", strings.ToLower(f.label[:1])+f.label[1:]), p.Excluded, f.format)
}
