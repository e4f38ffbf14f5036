package search

import "strings"

// Tokenize splits a query string into words. Unquoted spaces separate words.
// A double quote opens a phrase that runs to the next unescaped double quote,
// spaces included; the phrase may start in the middle of a word, as in
// tag:"my tag". A quote preceded by an odd number of backslashes is escaped.
// Inside a phrase, a space after an even, nonzero run of backslashes closes
// the phrase and ends the word. An unterminated phrase is flushed as-is at
// the end of the input.
//
// Words that begin and end with a double quote lose exactly one quote on
// each side. Backslashes are kept; value extraction removes them.
func Tokenize(queryStr string) []string {
	var words []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(queryStr)
	for i, char := range runes {
		switch {
		case char == ' ' && !inQuotes:
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		case char == ' ' && i > 0 && runes[i-1] == '\\' && !isEscaped(runes, i):
			// \\ before a space escapes the backslash, not the space.
			words = append(words, current.String())
			current.Reset()
			inQuotes = false
		case char == '"' && !isEscaped(runes, i):
			current.WriteRune(char)
			if inQuotes {
				// Closing quote ends the word, even an empty "" phrase.
				words = append(words, current.String())
				current.Reset()
			}
			inQuotes = !inQuotes
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	for i, w := range words {
		if isQuotedPhrase(w) {
			words[i] = w[1 : len(w)-1]
		}
	}
	return words
}

// isEscaped reports whether runes[i] is preceded by an odd number of
// backslashes. An escaped backslash does not escape what follows it.
func isEscaped(runes []rune, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && runes[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// isQuotedPhrase returns true if the word starts and ends with a double quote.
func isQuotedPhrase(word string) bool {
	return len(word) >= 2 && word[0] == '"' && word[len(word)-1] == '"'
}

// unquote removes one pair of surrounding double quotes, if present, and
// then resolves backslash escapes.
func unquote(s string) string {
	if isQuotedPhrase(s) {
		s = s[1 : len(s)-1]
	}
	return unescape(s)
}

// unescape drops the backslash in front of a double quote, a space or
// another backslash. Other backslashes are kept.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '"', ' ', '\\':
				b.WriteByte(s[i+1])
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// removeAll returns words without any element equal to w.
func removeAll(words []string, w string) []string {
	out := words[:0]
	for _, x := range words {
		if x != w {
			out = append(out, x)
		}
	}
	return out
}
