// Package merge combines per-batch extraction results into one document
// record set. The FULL batch is authoritative for every non-asset section;
// assets are concatenated across batches and renumbered globally.
package merge

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/opennacc/digitize-cli/internal/enummap"
	"github.com/opennacc/digitize-cli/internal/model"
	"github.com/opennacc/digitize-cli/internal/planner"
)

// ErrNoBatches is returned when there is nothing to merge.
var ErrNoBatches = eris.New("merge: no batch results")

// Warning is a non-fatal discrepancy found during the merge. Warnings are
// surfaced to the caller and logged, never silently dropped.
type Warning struct {
	Batch   int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("batch %d: %s", w.Batch, w.Message)
}

// Merge folds aligned batch results and specs into a single record set.
// Results and specs must be equal length and in batch order. Malformed batch
// content never aborts the merge; it is reported through the warning list.
func Merge(results []*model.BatchResult, specs []planner.Spec, naccID, submitterID int) (*model.DocumentRecordSet, []Warning, error) {
	if len(results) == 0 {
		return nil, nil, ErrNoBatches
	}
	if len(results) != len(specs) {
		return nil, nil, eris.Wrapf(ErrNoBatches, "got %d results for %d specs", len(results), len(specs))
	}

	doc := &model.DocumentRecordSet{NaccID: naccID, SubmitterID: submitterID}
	var warnings []Warning

	full := results[0]
	if full.Submitter != nil {
		doc.Submitter = *full.Submitter
	} else {
		warnings = append(warnings, Warning{Batch: 0, Message: "full batch returned no submitter section"})
	}
	doc.Spouse = full.Spouse
	doc.SubmitterOldNames = full.SubmitterOldNames
	doc.SubmitterPositions = full.SubmitterPositions
	doc.SpouseOldNames = full.SpouseOldNames
	doc.SpousePositions = full.SpousePositions
	doc.Relatives = full.Relatives
	doc.Statements = full.Statements
	doc.StatementDetails = full.StatementDetails

	// Renumber asset indices with a running counter so they stay unique and
	// contiguous across batches, in batch-then-within-batch order.
	mapper := enummap.New()
	nextIndex := 1
	for i, r := range results {
		if i > 0 && r.HasNonAssetSections() {
			warnings = append(warnings, Warning{
				Batch:   i,
				Message: "assets-only batch returned non-asset sections, ignored",
			})
		}
		for _, a := range r.Assets {
			a.Index = nextIndex
			nextIndex++
			// The model occasionally returns the Thai type labels without an
			// id; resolve them before the id-based band checks run.
			if a.TypeID == 0 && (a.TypeMain != "" || a.TypeSub != "") {
				if id := mapper.MapAssetType(a.TypeMain, a.TypeSub); id != enummap.Unknown {
					a.TypeID = model.AssetTypeID(id)
				} else {
					warnings = append(warnings, Warning{
						Batch:   i,
						Message: fmt.Sprintf("asset %d: unmapped type %q/%q", a.Index, a.TypeMain, a.TypeSub),
					})
				}
			}
			doc.Assets = append(doc.Assets, a)
		}
	}

	for _, p := range doc.Validate() {
		warnings = append(warnings, Warning{Batch: -1, Message: p.String()})
	}

	return doc, warnings, nil
}
