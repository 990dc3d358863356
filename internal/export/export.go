// Package export writes extraction results to the submission CSV tables and
// score reports to XLSX workbooks.
package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/opennacc/digitize-cli/internal/model"
)

// Exporter accumulates record sets and writes one CSV per table, matching the
// submission layout. Row IDs are assigned sequentially across documents.
type Exporter struct {
	dir   string
	today string

	nextSpouseID   int
	nextRelativeID int
	nextAssetID    int

	submitters  []submitterOut
	spouses     []spouseOut
	subOldNames []oldNameOut
	spOldNames  []oldNameOut
	subPos      []positionOut
	spPos       []positionOut
	relatives   []relativeOut
	statements  []statementOut
	details     []detailOut
	assets      []assetOut
	lands       []landOut
	buildings   []buildingOut
	vehicles    []vehicleOut
	others      []otherOut
}

// NewExporter returns an Exporter writing into dir.
func NewExporter(dir string) *Exporter {
	return &Exporter{
		dir:            dir,
		today:          time.Now().Format("2006-01-02"),
		nextSpouseID:   1,
		nextRelativeID: 1,
		nextAssetID:    1,
	}
}

// Add appends one document's rows to the pending tables.
func (e *Exporter) Add(doc *model.DocumentRecordSet) {
	e.submitters = append(e.submitters, submitterOut{
		SubmitterID: doc.SubmitterID,
		Title:       doc.Submitter.Title,
		FirstName:   doc.Submitter.FirstName,
		LastName:    doc.Submitter.LastName,
		Age:         doc.Submitter.Age,
		Status:      doc.Submitter.Status,
		StatusDate:  doc.Submitter.StatusDate,
		StatusMonth: doc.Submitter.StatusMonth,
		StatusYear:  doc.Submitter.StatusYear,
		SubDistrict: doc.Submitter.SubDistrict,
		District:    doc.Submitter.District,
		Province:    doc.Submitter.Province,
		PostCode:    doc.Submitter.PostCode,
		Submitted:   e.today,
	})

	for _, n := range doc.SubmitterOldNames {
		e.subOldNames = append(e.subOldNames, e.oldNameOut(doc, n))
	}
	for _, p := range doc.SubmitterPositions {
		e.subPos = append(e.subPos, e.positionOut(doc, p))
	}

	if doc.Spouse != nil {
		spouseID := e.nextSpouseID
		e.nextSpouseID++
		e.spouses = append(e.spouses, spouseOut{
			SpouseID:    spouseID,
			SubmitterID: doc.SubmitterID,
			NaccID:      doc.NaccID,
			Title:       doc.Spouse.Title,
			FirstName:   doc.Spouse.FirstName,
			LastName:    doc.Spouse.LastName,
			Age:         doc.Spouse.Age,
			Status:      doc.Spouse.Status,
			StatusDate:  doc.Spouse.StatusDate,
			StatusMonth: doc.Spouse.StatusMonth,
			StatusYear:  doc.Spouse.StatusYear,
			Submitted:   e.today,
		})
		for _, n := range doc.SpouseOldNames {
			e.spOldNames = append(e.spOldNames, e.oldNameOut(doc, n))
		}
		for _, p := range doc.SpousePositions {
			out := e.positionOut(doc, p)
			out.SpouseID = spouseID
			e.spPos = append(e.spPos, out)
		}
	}

	for _, r := range doc.Relatives {
		relativeID := e.nextRelativeID
		e.nextRelativeID++
		e.relatives = append(e.relatives, relativeOut{
			RelativeID:     relativeID,
			SubmitterID:    doc.SubmitterID,
			NaccID:         doc.NaccID,
			Index:          r.Index,
			RelationshipID: int(r.Relation),
			Title:          r.Title,
			FirstName:      r.FirstName,
			LastName:       r.LastName,
			Age:            r.Age,
			Occupation:     r.Occupation,
			Workplace:      r.Workplace,
			IsDeceased:     r.IsDeceased,
			Submitted:      e.today,
		})
	}

	for _, s := range doc.Statements {
		e.statements = append(e.statements, statementOut{
			NaccID:             doc.NaccID,
			StatementTypeID:    int(s.Type),
			ValuationSubmitter: s.ValuationSubmitter,
			SubmitterID:        doc.SubmitterID,
			ValuationSpouse:    s.ValuationSpouse,
			ValuationChild:     s.ValuationChild,
			Submitted:          e.today,
		})
	}

	for _, d := range doc.StatementDetails {
		e.details = append(e.details, detailOut{
			NaccID:             doc.NaccID,
			SubmitterID:        doc.SubmitterID,
			DetailTypeID:       d.DetailType,
			Index:              d.Index,
			Detail:             d.Detail,
			ValuationSubmitter: d.ValuationSubmitter,
			ValuationSpouse:    d.ValuationSpouse,
			ValuationChild:     d.ValuationChild,
			Note:               d.Note,
			Submitted:          e.today,
		})
	}

	for _, a := range doc.Assets {
		e.addAsset(doc, a)
	}
}

func (e *Exporter) addAsset(doc *model.DocumentRecordSet, a model.Asset) {
	assetID := e.nextAssetID
	e.nextAssetID++

	e.assets = append(e.assets, assetOut{
		AssetID:             assetID,
		SubmitterID:         doc.SubmitterID,
		NaccID:              doc.NaccID,
		Index:               a.Index,
		TypeID:              int(a.TypeID),
		TypeOther:           a.TypeOther,
		Name:                a.Name,
		DateAcquiringTypeID: int(a.DateAcquiringType),
		AcquiringDate:       a.AcquiringDate,
		AcquiringMonth:      a.AcquiringMonth,
		AcquiringYear:       a.AcquiringYear,
		DateEndingTypeID:    int(a.DateEndingType),
		EndingDate:          a.EndingDate,
		EndingMonth:         a.EndingMonth,
		EndingYear:          a.EndingYear,
		Valuation:           a.Valuation,
		OwnerBySubmitter:    a.OwnerBySubmitter,
		OwnerBySpouse:       a.OwnerBySpouse,
		OwnerByChild:        a.OwnerByChild,
		Submitted:           e.today,
	})

	switch {
	case a.Land != nil:
		e.lands = append(e.lands, landOut{
			AssetID:     assetID,
			SubmitterID: doc.SubmitterID,
			NaccID:      doc.NaccID,
			AssetIndex:  a.Index,
			DocNumber:   a.Land.DocNumber,
			Rai:         a.Land.Rai,
			Ngan:        a.Land.Ngan,
			SqWa:        a.Land.SqWa,
			SubDistrict: a.Land.SubDistrict,
			District:    a.Land.District,
			Province:    a.Land.Province,
			Submitted:   e.today,
		})
	case a.Building != nil:
		e.buildings = append(e.buildings, buildingOut{
			AssetID:     assetID,
			SubmitterID: doc.SubmitterID,
			NaccID:      doc.NaccID,
			AssetIndex:  a.Index,
			DocNumber:   a.Building.DocNumber,
			SubDistrict: a.Building.SubDistrict,
			District:    a.Building.District,
			Province:    a.Building.Province,
			Submitted:   e.today,
		})
	case a.Vehicle != nil:
		e.vehicles = append(e.vehicles, vehicleOut{
			AssetID:              assetID,
			SubmitterID:          doc.SubmitterID,
			NaccID:               doc.NaccID,
			AssetIndex:           a.Index,
			RegistrationNumber:   stripSpaces(a.Vehicle.RegistrationNumber),
			VehicleBrand:         a.Vehicle.Brand,
			VehicleModel:         a.Vehicle.Model,
			RegistrationProvince: a.Vehicle.RegistrationProvince,
			Submitted:            e.today,
		})
	case a.Other != nil:
		e.others = append(e.others, otherOut{
			AssetID:     assetID,
			SubmitterID: doc.SubmitterID,
			NaccID:      doc.NaccID,
			AssetIndex:  a.Index,
			Count:       a.Other.Count,
			Unit:        a.Other.Unit,
			Submitted:   e.today,
		})
	}
}

func (e *Exporter) oldNameOut(doc *model.DocumentRecordSet, n model.OldName) oldNameOut {
	return oldNameOut{
		SubmitterID: doc.SubmitterID,
		NaccID:      doc.NaccID,
		Index:       n.Index,
		Title:       n.Title,
		FirstName:   n.FirstName,
		LastName:    n.LastName,
		Submitted:   e.today,
	}
}

func (e *Exporter) positionOut(doc *model.DocumentRecordSet, p model.Position) positionOut {
	return positionOut{
		SubmitterID:       doc.SubmitterID,
		NaccID:            doc.NaccID,
		PeriodTypeID:      int(p.PeriodType),
		Index:             p.Index,
		Position:          p.Position,
		CategoryTypeID:    p.CategoryType,
		Workplace:         p.Workplace,
		WorkplaceLocation: p.WorkplaceAddress,
		StartDate:         p.StartDate,
		StartMonth:        p.StartMonth,
		StartYear:         p.StartYear,
		EndDate:           p.EndDate,
		EndMonth:          p.EndMonth,
		EndYear:           p.EndYear,
		Note:              p.Note,
		Submitted:         e.today,
	}
}

// Flush writes all pending tables to the output directory, one CSV per table.
// Tables with no rows are still written with their header so downstream
// tooling sees a complete set.
func (e *Exporter) Flush() error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create %s", e.dir)
	}

	if err := writeCSV(e.dir, "submitter_info.csv", e.submitters); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "submitter_old_name.csv", e.subOldNames); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "submitter_position.csv", e.subPos); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "spouse_info.csv", e.spouses); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "spouse_old_name.csv", e.spOldNames); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "spouse_position.csv", e.spPos); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "relative_info.csv", e.relatives); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "statement.csv", e.statements); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "statement_detail.csv", e.details); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "asset.csv", e.assets); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "asset_land_info.csv", e.lands); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "asset_building_info.csv", e.buildings); err != nil {
		return err
	}
	if err := writeCSV(e.dir, "asset_vehicle_info.csv", e.vehicles); err != nil {
		return err
	}
	return writeCSV(e.dir, "asset_other_asset_info.csv", e.others)
}

func writeCSV[T any](dir, name string, rows []T) error {
	// csvutil needs a typed slice even when empty to emit the header row.
	if rows == nil {
		rows = []T{}
	}
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrapf(err, "export: marshal %s", name)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", name)
	}
	return nil
}

func stripSpaces(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r != ' ' {
			out = append(out, r)
		}
	}
	return string(out)
}
