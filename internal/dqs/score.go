package dqs

import (
	"fmt"
	"strconv"

	"github.com/opennacc/digitize-cli/internal/model"
)

// PassThreshold is the overall score a document must reach to count as an
// acceptable digitization.
const PassThreshold = 0.70

// Report is the scoring result for one document.
type Report struct {
	NaccID          int
	Overall         float64
	PassesThreshold bool
	Sections        map[string]float64
	Tables          map[string]float64
}

// Section names used as keys in Report.Sections.
const (
	SectionSubmitterSpouse = "submitter_spouse"
	SectionStatements      = "statement_details"
	SectionAssets          = "assets"
	SectionRelatives       = "relatives"
)

// Score compares an extracted record set against ground truth. Pure and
// deterministic: identical inputs always produce identical reports.
func Score(extracted, truth *model.DocumentRecordSet, w Weights) (*Report, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	r := &Report{
		NaccID:   extracted.NaccID,
		Sections: make(map[string]float64, 4),
		Tables:   make(map[string]float64, 14),
	}

	sections := map[string][]float64{}
	addTable := func(section, table string, ts tableScore) {
		if !ts.ok {
			return
		}
		r.Tables[table] = ts.score
		sections[section] = append(sections[section], ts.score)
	}

	addTable(SectionSubmitterSpouse, "submitter_info", scored(scoreSubmitter(&extracted.Submitter, &truth.Submitter)))
	addTable(SectionSubmitterSpouse, "submitter_old_name", scored(scoreOldNames(extracted.SubmitterOldNames, truth.SubmitterOldNames)))
	addTable(SectionSubmitterSpouse, "submitter_position", scored(scorePositions(extracted.SubmitterPositions, truth.SubmitterPositions)))
	addTable(SectionSubmitterSpouse, "spouse_info", scored(scoreSpouse(extracted.Spouse, truth.Spouse)))
	addTable(SectionSubmitterSpouse, "spouse_old_name", scored(scoreOldNames(extracted.SpouseOldNames, truth.SpouseOldNames)))
	addTable(SectionSubmitterSpouse, "spouse_position", scored(scorePositions(extracted.SpousePositions, truth.SpousePositions)))

	addTable(SectionStatements, "statement", scored(scoreStatements(extracted.Statements, truth.Statements)))
	addTable(SectionStatements, "statement_detail", scored(scoreStatementDetails(extracted.StatementDetails, truth.StatementDetails)))

	addTable(SectionAssets, "asset", scored(scoreAssets(extracted.Assets, truth.Assets)))
	addTable(SectionAssets, "asset_land_info", scored(scoreLandInfo(extracted.Assets, truth.Assets)))
	addTable(SectionAssets, "asset_building_info", scored(scoreBuildingInfo(extracted.Assets, truth.Assets)))
	addTable(SectionAssets, "asset_vehicle_info", scored(scoreVehicleInfo(extracted.Assets, truth.Assets)))
	addTable(SectionAssets, "asset_other_asset_info", scored(scoreOtherInfo(extracted.Assets, truth.Assets)))

	addTable(SectionRelatives, "relative_info", scored(scoreRelatives(extracted.Relatives, truth.Relatives)))

	// A section with nothing to compare on either side is vacuously perfect.
	sectionScore := func(name string) float64 {
		scores := sections[name]
		if len(scores) == 0 {
			return 1.0
		}
		return mean(scores)
	}
	r.Sections[SectionSubmitterSpouse] = sectionScore(SectionSubmitterSpouse)
	r.Sections[SectionStatements] = sectionScore(SectionStatements)
	r.Sections[SectionAssets] = sectionScore(SectionAssets)
	r.Sections[SectionRelatives] = sectionScore(SectionRelatives)

	r.Overall = r.Sections[SectionSubmitterSpouse]*w.SubmitterSpouse +
		r.Sections[SectionStatements]*w.Statements +
		r.Sections[SectionAssets]*w.Assets +
		r.Sections[SectionRelatives]*w.Relatives
	r.PassesThreshold = r.Overall >= PassThreshold

	return r, nil
}

// tableScore carries a table's averaged score plus whether the table had
// anything to compare at all; empty tables stay out of the section mean.
type tableScore struct {
	score float64
	ok    bool
}

func scored(score float64, ok bool) tableScore { return tableScore{score: score, ok: ok} }

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// scoreRows aligns rows by natural key and averages field scores over the
// matched pairs. Coverage divides by the larger row count so both missed
// ground-truth rows and hallucinated extra rows pull the score down.
// ok is false when there is nothing to compare on either side.
func scoreRows(nPred, nTruth int, predKey, truthKey func(int) string, compare func(p, t int) []float64) (float64, bool) {
	if nPred == 0 && nTruth == 0 {
		return 0, false
	}
	if nPred == 0 || nTruth == 0 {
		return 0, true
	}

	byKey := make(map[string]int, nPred)
	for i := 0; i < nPred; i++ {
		k := predKey(i)
		if _, seen := byKey[k]; !seen {
			byKey[k] = i
		}
	}

	matched := 0
	var scores []float64
	for t := 0; t < nTruth; t++ {
		p, ok := byKey[truthKey(t)]
		if !ok {
			continue
		}
		matched++
		scores = append(scores, compare(p, t)...)
	}

	larger := nPred
	if nTruth > larger {
		larger = nTruth
	}
	coverage := float64(matched) / float64(larger)
	return mean(scores) * coverage, true
}

func scoreSubmitter(pred, truth *model.SubmitterInfo) (float64, bool) {
	if submitterEmpty(pred) && submitterEmpty(truth) {
		return 0, false
	}
	if submitterEmpty(pred) || submitterEmpty(truth) {
		return 0, true
	}
	return mean([]float64{
		textScore(pred.Title, truth.Title),
		textScore(pred.FirstName, truth.FirstName),
		textScore(pred.LastName, truth.LastName),
		intScore(pred.Age, truth.Age),
		textScore(pred.Status, truth.Status),
		textScore(pred.SubDistrict, truth.SubDistrict),
		textScore(pred.District, truth.District),
		textScore(pred.Province, truth.Province),
	}), true
}

func submitterEmpty(s *model.SubmitterInfo) bool {
	return s == nil || (s.FirstName == "" && s.LastName == "")
}

func scoreSpouse(pred, truth *model.SpouseInfo) (float64, bool) {
	if pred == nil && truth == nil {
		return 0, false
	}
	if pred == nil || truth == nil {
		return 0, true
	}
	return mean([]float64{
		textScore(pred.Title, truth.Title),
		textScore(pred.FirstName, truth.FirstName),
		textScore(pred.LastName, truth.LastName),
		intScore(pred.Age, truth.Age),
		textScore(pred.Status, truth.Status),
	}), true
}

func scoreOldNames(pred, truth []model.OldName) (float64, bool) {
	key := func(rows []model.OldName) func(int) string {
		return func(i int) string { return strconv.Itoa(rows[i].Index) }
	}
	return scoreRows(len(pred), len(truth), key(pred), key(truth), func(p, t int) []float64 {
		return []float64{
			textScore(pred[p].Title, truth[t].Title),
			textScore(pred[p].FirstName, truth[t].FirstName),
			textScore(pred[p].LastName, truth[t].LastName),
		}
	})
}

func scorePositions(pred, truth []model.Position) (float64, bool) {
	key := func(rows []model.Position) func(int) string {
		return func(i int) string {
			return fmt.Sprintf("%d|%d", rows[i].Index, rows[i].PeriodType)
		}
	}
	return scoreRows(len(pred), len(truth), key(pred), key(truth), func(p, t int) []float64 {
		return []float64{
			textScore(pred[p].Position, truth[t].Position),
			textScore(pred[p].Workplace, truth[t].Workplace),
			textScore(pred[p].WorkplaceAddress, truth[t].WorkplaceAddress),
			dateScore(pred[p].StartDate, pred[p].StartMonth, pred[p].StartYear,
				truth[t].StartDate, truth[t].StartMonth, truth[t].StartYear),
			dateScore(pred[p].EndDate, pred[p].EndMonth, pred[p].EndYear,
				truth[t].EndDate, truth[t].EndMonth, truth[t].EndYear),
		}
	})
}

func scoreRelatives(pred, truth []model.Relative) (float64, bool) {
	key := func(rows []model.Relative) func(int) string {
		return func(i int) string {
			return fmt.Sprintf("%d|%s", rows[i].Relation, normText(rows[i].FirstName))
		}
	}
	return scoreRows(len(pred), len(truth), key(pred), key(truth), func(p, t int) []float64 {
		return []float64{
			enumScore(pred[p].Relation, truth[t].Relation),
			textScore(pred[p].Title, truth[t].Title),
			textScore(pred[p].FirstName, truth[t].FirstName),
			textScore(pred[p].LastName, truth[t].LastName),
		}
	})
}

func scoreStatements(pred, truth []model.Statement) (float64, bool) {
	key := func(rows []model.Statement) func(int) string {
		return func(i int) string { return strconv.Itoa(int(rows[i].Type)) }
	}
	return scoreRows(len(pred), len(truth), key(pred), key(truth), func(p, t int) []float64 {
		return []float64{
			enumScore(pred[p].Type, truth[t].Type),
			numericScore(pred[p].ValuationSubmitter, truth[t].ValuationSubmitter),
			numericScore(pred[p].ValuationSpouse, truth[t].ValuationSpouse),
			numericScore(pred[p].ValuationChild, truth[t].ValuationChild),
		}
	})
}

func scoreStatementDetails(pred, truth []model.StatementDetail) (float64, bool) {
	key := func(rows []model.StatementDetail) func(int) string {
		return func(i int) string {
			return fmt.Sprintf("%d|%d", rows[i].DetailType, rows[i].Index)
		}
	}
	return scoreRows(len(pred), len(truth), key(pred), key(truth), func(p, t int) []float64 {
		return []float64{
			textScore(pred[p].Detail, truth[t].Detail),
			numericScore(pred[p].ValuationSubmitter, truth[t].ValuationSubmitter),
			numericScore(pred[p].ValuationSpouse, truth[t].ValuationSpouse),
			numericScore(pred[p].ValuationChild, truth[t].ValuationChild),
		}
	})
}

func assetKey(rows []model.Asset) func(int) string {
	return func(i int) string { return strconv.Itoa(rows[i].Index) }
}

func scoreAssets(pred, truth []model.Asset) (float64, bool) {
	return scoreRows(len(pred), len(truth), assetKey(pred), assetKey(truth), func(p, t int) []float64 {
		return []float64{
			enumScore(pred[p].TypeID, truth[t].TypeID),
			textScore(pred[p].Name, truth[t].Name),
			numericScore(pred[p].Valuation, truth[t].Valuation),
			boolScore(pred[p].OwnerBySubmitter, truth[t].OwnerBySubmitter),
			boolScore(pred[p].OwnerBySpouse, truth[t].OwnerBySpouse),
			boolScore(pred[p].OwnerByChild, truth[t].OwnerByChild),
			dateScore(pred[p].AcquiringDate, pred[p].AcquiringMonth, pred[p].AcquiringYear,
				truth[t].AcquiringDate, truth[t].AcquiringMonth, truth[t].AcquiringYear),
		}
	})
}

// Detail sub-record tables align on the owning asset's index.

func scoreLandInfo(pred, truth []model.Asset) (float64, bool) {
	p := filterAssets(pred, func(a model.Asset) bool { return a.Land != nil })
	t := filterAssets(truth, func(a model.Asset) bool { return a.Land != nil })
	return scoreRows(len(p), len(t), assetKey(p), assetKey(t), func(pi, ti int) []float64 {
		a, b := p[pi].Land, t[ti].Land
		return []float64{
			textScore(a.DocNumber, b.DocNumber),
			numericScore(a.Rai, b.Rai),
			numericScore(a.Ngan, b.Ngan),
			numericScore(a.SqWa, b.SqWa),
			textScore(a.SubDistrict, b.SubDistrict),
			textScore(a.District, b.District),
			textScore(a.Province, b.Province),
		}
	})
}

func scoreBuildingInfo(pred, truth []model.Asset) (float64, bool) {
	p := filterAssets(pred, func(a model.Asset) bool { return a.Building != nil })
	t := filterAssets(truth, func(a model.Asset) bool { return a.Building != nil })
	return scoreRows(len(p), len(t), assetKey(p), assetKey(t), func(pi, ti int) []float64 {
		a, b := p[pi].Building, t[ti].Building
		return []float64{
			textScore(a.DocNumber, b.DocNumber),
			textScore(a.SubDistrict, b.SubDistrict),
			textScore(a.District, b.District),
			textScore(a.Province, b.Province),
		}
	})
}

func scoreVehicleInfo(pred, truth []model.Asset) (float64, bool) {
	p := filterAssets(pred, func(a model.Asset) bool { return a.Vehicle != nil })
	t := filterAssets(truth, func(a model.Asset) bool { return a.Vehicle != nil })
	return scoreRows(len(p), len(t), assetKey(p), assetKey(t), func(pi, ti int) []float64 {
		a, b := p[pi].Vehicle, t[ti].Vehicle
		return []float64{
			textScore(a.RegistrationNumber, b.RegistrationNumber),
			textScore(a.Brand, b.Brand),
			textScore(a.Model, b.Model),
			textScore(a.RegistrationProvince, b.RegistrationProvince),
		}
	})
}

func scoreOtherInfo(pred, truth []model.Asset) (float64, bool) {
	p := filterAssets(pred, func(a model.Asset) bool { return a.Other != nil })
	t := filterAssets(truth, func(a model.Asset) bool { return a.Other != nil })
	return scoreRows(len(p), len(t), assetKey(p), assetKey(t), func(pi, ti int) []float64 {
		a, b := p[pi].Other, t[ti].Other
		return []float64{
			intScore(a.Count, b.Count),
			textScore(a.Unit, b.Unit),
		}
	})
}

func filterAssets(assets []model.Asset, keep func(model.Asset) bool) []model.Asset {
	var out []model.Asset
	for _, a := range assets {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
