package model

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PathComparator orders paths the way a file browser does: locale aware and
// with embedded numbers compared numerically ("file2" before "file10").
// Paths the collator considers equal fall back to byte order so the result is
// a total order. Not safe for concurrent use.
type PathComparator struct {
	collator *collate.Collator
}

// NewPathComparator creates a comparator for the undetermined locale
func NewPathComparator() *PathComparator {
	return &PathComparator{
		collator: collate.New(language.Und, collate.Numeric),
	}
}

// Compare returns -1, 0 or 1
func (p *PathComparator) Compare(a, b string) int {
	if c := p.collator.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
