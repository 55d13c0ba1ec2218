// Package assemble builds a bounded context blob from fetched documents.
package assemble

import "strings"

// Source pairs a document URL with its extracted text. Empty text marks a
// failed or skipped fetch.
type Source struct {
	URL  string
	Text string
}

// Assembler merges ordered sources into a single context blob under a byte
// budget. The zero value is not usable; construct with New.
type Assembler struct {
	maxLength   int
	minFragment int
}

// New creates an Assembler with a total budget of maxLength characters.
// When a source block overflows the budget, its leading fragment is still
// included if at least minFragment characters of budget remain; smaller
// remainders are not worth a dangling fragment and the block is dropped.
func New(maxLength, minFragment int) *Assembler {
	return &Assembler{maxLength: maxLength, minFragment: minFragment}
}

// Assemble concatenates per-source blocks in input order under the budget.
// Sources with empty text are skipped without consuming budget. The first
// block that overflows the budget ends assembly: it is included truncated to
// the remaining budget when that remainder exceeds the minimum fragment size,
// and later sources are never considered, even ones that would fit. Output is
// deterministic for identical input.
func (a *Assembler) Assemble(sources []Source) string {
	var b strings.Builder

	for _, src := range sources {
		if src.Text == "" {
			continue
		}

		block := "\n\nSOURCE: " + src.URL + "\n" + src.Text
		cost := len(block)
		if b.Len() > 0 {
			cost++ // joining newline
		}

		if b.Len()+cost > a.maxLength {
			// The budget remaining after the separator; a fragment smaller
			// than minFragment is dropped rather than dangled.
			remaining := a.maxLength - b.Len()
			if b.Len() > 0 {
				remaining--
			}
			if remaining > a.minFragment {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(block[:remaining])
			}
			break
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(block)
	}

	return b.String()
}
