// Package render formats compiled queries for the terminal.
package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/wesm/notequery/internal/search"
)

var (
	labelStyle     = lipgloss.NewStyle().Bold(true)
	negatedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	valueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	emptyStyle     = lipgloss.NewStyle().Faint(true)
	highlightStyle = lipgloss.NewStyle().Reverse(true)
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
)

const emptyMarker = "field is empty"

// Options controls Query output.
type Options struct {
	ShowEmpty bool // include empty fields and false flags
}

// Query renders q one field per line with styled labels. Unless
// opts.ShowEmpty is set, empty fields and unset flags are left out.
func Query(q *search.Query, opts Options) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(q.DisplayString(), "\n"), "\n") {
		label, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		empty := value == emptyMarker || value == "false" || value == "not set"
		if empty && !opts.ShowEmpty {
			continue
		}

		style := labelStyle
		if strings.HasPrefix(label, "Negated ") {
			style = negatedStyle
		}
		b.WriteString(style.Render(label + ":"))
		b.WriteByte(' ')
		if empty {
			b.WriteString(emptyStyle.Render(value))
		} else {
			b.WriteString(valueStyle.Render(value))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Error renders a compile error for the terminal.
func Error(err error) string {
	return errorStyle.Render("error:") + " " + err.Error()
}

// Highlight marks every case-insensitive occurrence of terms in text.
// Overlapping and adjacent matches are merged into one styled run.
func Highlight(text string, terms []string) string {
	if text == "" || len(terms) == 0 {
		return text
	}

	runes := []rune(text)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	marked := make([]bool, len(runes))
	found := false
	for _, term := range terms {
		tr := []rune(term)
		for i, r := range tr {
			tr[i] = unicode.ToLower(r)
		}
		if len(tr) == 0 || len(tr) > len(lower) {
			continue
		}
		for i := 0; i+len(tr) <= len(lower); i++ {
			if runesEqual(lower[i:i+len(tr)], tr) {
				for j := i; j < i+len(tr); j++ {
					marked[j] = true
				}
				found = true
			}
		}
	}
	if !found {
		return text
	}

	var b strings.Builder
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && marked[j] == marked[i] {
			j++
		}
		if marked[i] {
			b.WriteString(highlightStyle.Render(string(runes[i:j])))
		} else {
			b.WriteString(string(runes[i:j]))
		}
		i = j
	}
	return b.String()
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
