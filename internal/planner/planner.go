// Package planner splits a document's pages into extraction batches. The
// first batch carries the full-extraction prompt; every later batch only
// continues the asset tables, since the identity and statement sections
// always sit in the opening pages.
package planner

import "github.com/rotisserie/eris"

// Kind tells the extractor which instruction set a batch gets.
type Kind string

const (
	KindFull       Kind = "FULL"
	KindAssetsOnly Kind = "ASSETS_ONLY"
)

// Spec is one planned batch. Page numbers are 1-based and inclusive.
type Spec struct {
	Index     int
	StartPage int
	EndPage   int
	Kind      Kind
}

// Pages returns the number of pages the batch covers.
func (s Spec) Pages() int { return s.EndPage - s.StartPage + 1 }

var (
	ErrEmptyDocument = eris.New("planner: document has no pages")
	ErrInvalidConfig = eris.New("planner: max pages per batch must be positive")
)

// Plan produces the ordered batch sequence for a document. The returned
// specs partition [1, totalPages] with no gaps or overlaps; batch 0 is the
// only FULL batch.
func Plan(totalPages, maxPagesPerBatch int) ([]Spec, error) {
	if maxPagesPerBatch <= 0 {
		return nil, eris.Wrapf(ErrInvalidConfig, "got %d", maxPagesPerBatch)
	}
	if totalPages <= 0 {
		return nil, eris.Wrapf(ErrEmptyDocument, "total pages %d", totalPages)
	}

	var specs []Spec
	for start := 1; start <= totalPages; start += maxPagesPerBatch {
		end := start + maxPagesPerBatch - 1
		if end > totalPages {
			end = totalPages
		}
		kind := KindAssetsOnly
		if len(specs) == 0 {
			kind = KindFull
		}
		specs = append(specs, Spec{
			Index:     len(specs),
			StartPage: start,
			EndPage:   end,
			Kind:      kind,
		})
	}
	return specs, nil
}
