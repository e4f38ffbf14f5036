package search

import "golang.org/x/text/unicode/norm"

// Normalize returns s in Unicode NFC form, so that composed and decomposed
// spellings of the same text compile to the same words.
func Normalize(s string) string {
	return norm.NFC.String(s)
}
