package pages

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
)

// docInfoRow mirrors one row of doc_info.csv.
type docInfoRow struct {
	DocID    string `csv:"doc_id"`
	NaccID   int    `csv:"nacc_id"`
	Location string `csv:"doc_location_url"`
}

// detailRow mirrors one row of nacc_detail.csv.
type detailRow struct {
	NaccID      int `csv:"nacc_id"`
	SubmitterID int `csv:"submitter_id"`
}

// Document is one manifest entry resolved against the detail table.
type Document struct {
	DocID       string
	NaccID      int
	SubmitterID int
}

// ReadManifest loads doc_info.csv and joins the nacc_id → submitter_id
// mapping from nacc_detail.csv in the same directory. A missing detail file
// is not an error; submitter IDs default to zero.
func ReadManifest(docInfoPath string) ([]Document, error) {
	raw, err := os.ReadFile(docInfoPath)
	if err != nil {
		return nil, eris.Wrapf(err, "pages: read manifest %s", docInfoPath)
	}
	var rows []docInfoRow
	if err := csvutil.Unmarshal(raw, &rows); err != nil {
		return nil, eris.Wrapf(err, "pages: parse manifest %s", docInfoPath)
	}

	details := readDetailMap(filepath.Dir(docInfoPath))

	docs := make([]Document, 0, len(rows))
	for _, r := range rows {
		docID := r.DocID
		if docID == "" && r.Location != "" {
			docID = strings.TrimSuffix(filepath.Base(r.Location), filepath.Ext(r.Location))
		}
		if docID == "" {
			continue
		}
		docs = append(docs, Document{
			DocID:       docID,
			NaccID:      r.NaccID,
			SubmitterID: details[r.NaccID],
		})
	}
	return docs, nil
}

func readDetailMap(dir string) map[int]int {
	out := map[int]int{}
	for _, name := range []string{"nacc_detail.csv", "Train_nacc_detail.csv"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		var rows []detailRow
		if err := csvutil.Unmarshal(raw, &rows); err != nil {
			continue
		}
		for _, r := range rows {
			if r.NaccID != 0 && r.SubmitterID != 0 {
				out[r.NaccID] = r.SubmitterID
			}
		}
		return out
	}
	return out
}
