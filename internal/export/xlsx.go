package export

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/opennacc/digitize-cli/internal/dqs"
)

// WriteScoreReport writes per-document quality scores to an XLSX workbook
// with a summary sheet and per-section / per-table breakdown sheets.
func WriteScoreReport(path string, reports []*dqs.Report) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}
	header := summary.AddRow()
	for _, h := range []string{"nacc_id", "overall_dqs", "passes_threshold"} {
		header.AddCell().Value = h
	}
	for _, r := range reports {
		row := summary.AddRow()
		row.AddCell().SetInt(r.NaccID)
		row.AddCell().SetFloat(r.Overall)
		row.AddCell().SetBool(r.PassesThreshold)
	}

	if err := addBreakdownSheet(f, "Sections", reports, func(r *dqs.Report) map[string]float64 {
		return r.Sections
	}); err != nil {
		return err
	}
	if err := addBreakdownSheet(f, "Tables", reports, func(r *dqs.Report) map[string]float64 {
		return r.Tables
	}); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}

// addBreakdownSheet writes one row per document with one column per score
// key. Columns are the union of keys across all reports, sorted so the
// workbook is stable run to run.
func addBreakdownSheet(f *xlsx.File, name string, reports []*dqs.Report, pick func(*dqs.Report) map[string]float64) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "export: add %s sheet", name)
	}

	keySet := map[string]struct{}{}
	for _, r := range reports {
		for k := range pick(r) {
			keySet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	header := sheet.AddRow()
	header.AddCell().Value = "nacc_id"
	for _, k := range keys {
		header.AddCell().Value = k
	}

	for _, r := range reports {
		row := sheet.AddRow()
		row.AddCell().SetInt(r.NaccID)
		scores := pick(r)
		for _, k := range keys {
			if v, ok := scores[k]; ok {
				row.AddCell().SetFloat(v)
			} else {
				row.AddCell()
			}
		}
	}
	return nil
}
