// Package gtruth loads the ground-truth CSV tables that extraction results
// are scored against. The tables follow the published dataset layout: one CSV
// per record type, with rows for every declaration keyed by nacc_id and
// submitter_id.
package gtruth

import (
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/opennacc/digitize-cli/internal/model"
)

// ErrNotFound is returned when no ground-truth rows exist for a document.
var ErrNotFound = eris.New("gtruth: document not found")

// Loader reads ground-truth tables from a directory. Each table may be named
// either plainly (asset.csv) or with the dataset's Train_ prefix
// (Train_asset.csv); missing tables are treated as empty.
type Loader struct {
	dir string
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load assembles the ground-truth record set for one declaration. It filters
// every table to the given nacc_id and submitter_id and attaches asset detail
// rows to their parent assets by index. ErrNotFound is returned when no table
// holds any row for the document.
func (l *Loader) Load(naccID, submitterID int) (*model.DocumentRecordSet, error) {
	doc := &model.DocumentRecordSet{NaccID: naccID, SubmitterID: submitterID}
	found := false

	subs, err := readTable[submitterRow](l.dir, "submitter_info.csv")
	if err != nil {
		return nil, err
	}
	for _, r := range subs {
		if r.SubmitterID != submitterID {
			continue
		}
		doc.Submitter = model.SubmitterInfo{
			Title:       r.Title,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			Age:         r.Age,
			Status:      r.Status,
			StatusDate:  r.StatusDate,
			StatusMonth: r.StatusMonth,
			StatusYear:  r.StatusYear,
			SubDistrict: r.SubDistrict,
			District:    r.District,
			Province:    r.Province,
			PostCode:    r.PostCode,
		}
		found = true
		break
	}

	spouses, err := readTable[spouseRow](l.dir, "spouse_info.csv")
	if err != nil {
		return nil, err
	}
	for _, r := range spouses {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		doc.Spouse = &model.SpouseInfo{
			Title:       r.Title,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			Age:         r.Age,
			Status:      r.Status,
			StatusDate:  r.StatusDate,
			StatusMonth: r.StatusMonth,
			StatusYear:  r.StatusYear,
		}
		found = true
		break
	}

	doc.SubmitterOldNames, err = loadOldNames(l.dir, "submitter_old_name.csv", naccID, submitterID)
	if err != nil {
		return nil, err
	}
	doc.SpouseOldNames, err = loadOldNames(l.dir, "spouse_old_name.csv", naccID, submitterID)
	if err != nil {
		return nil, err
	}

	doc.SubmitterPositions, err = loadPositions(l.dir, "submitter_position.csv", naccID, submitterID)
	if err != nil {
		return nil, err
	}
	doc.SpousePositions, err = loadPositions(l.dir, "spouse_position.csv", naccID, submitterID)
	if err != nil {
		return nil, err
	}

	relatives, err := readTable[relativeRow](l.dir, "relative_info.csv")
	if err != nil {
		return nil, err
	}
	for _, r := range relatives {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		doc.Relatives = append(doc.Relatives, model.Relative{
			Index:      r.Index,
			Relation:   model.Relationship(r.RelationshipID),
			Title:      r.Title,
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			Age:        r.Age,
			Occupation: r.Occupation,
			Workplace:  r.Workplace,
			IsDeceased: r.IsDeceased,
		})
	}

	statements, err := readTable[statementRow](l.dir, "statement.csv")
	if err != nil {
		return nil, err
	}
	for _, r := range statements {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		doc.Statements = append(doc.Statements, model.Statement{
			Type:               model.StatementType(r.StatementTypeID),
			ValuationSubmitter: r.ValuationSubmitter,
			ValuationSpouse:    r.ValuationSpouse,
			ValuationChild:     r.ValuationChild,
		})
	}

	details, err := readTable[statementDetailRow](l.dir, "statement_detail.csv")
	if err != nil {
		return nil, err
	}
	for _, r := range details {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		doc.StatementDetails = append(doc.StatementDetails, model.StatementDetail{
			DetailType:         r.DetailTypeID,
			Index:              r.Index,
			Detail:             r.Detail,
			ValuationSubmitter: r.ValuationSubmitter,
			ValuationSpouse:    r.ValuationSpouse,
			ValuationChild:     r.ValuationChild,
			Note:               r.Note,
		})
	}

	if err := l.loadAssets(doc, naccID, submitterID); err != nil {
		return nil, err
	}

	if !found && len(doc.Relatives) == 0 && len(doc.Statements) == 0 &&
		len(doc.StatementDetails) == 0 && len(doc.Assets) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "nacc_id %d submitter_id %d", naccID, submitterID)
	}
	return doc, nil
}

func loadOldNames(dir, file string, naccID, submitterID int) ([]model.OldName, error) {
	rows, err := readTable[oldNameRow](dir, file)
	if err != nil {
		return nil, err
	}
	var out []model.OldName
	for _, r := range rows {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		out = append(out, model.OldName{
			Index:     r.Index,
			Title:     r.Title,
			FirstName: r.FirstName,
			LastName:  r.LastName,
		})
	}
	return out, nil
}

func loadPositions(dir, file string, naccID, submitterID int) ([]model.Position, error) {
	rows, err := readTable[positionRow](dir, file)
	if err != nil {
		return nil, err
	}
	var out []model.Position
	for _, r := range rows {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		out = append(out, model.Position{
			PeriodType:       model.PositionPeriod(r.PeriodTypeID),
			Index:            r.Index,
			Position:         r.Position,
			CategoryType:     r.CategoryTypeID,
			Workplace:        r.Workplace,
			WorkplaceAddress: r.WorkplaceLocation,
			StartDate:        r.StartDate,
			StartMonth:       r.StartMonth,
			StartYear:        r.StartYear,
			EndDate:          r.EndDate,
			EndMonth:         r.EndMonth,
			EndYear:          r.EndYear,
			Note:             r.Note,
		})
	}
	return out, nil
}

func (l *Loader) loadAssets(doc *model.DocumentRecordSet, naccID, submitterID int) error {
	assets, err := readTable[assetRow](l.dir, "asset.csv")
	if err != nil {
		return err
	}
	for _, r := range assets {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		doc.Assets = append(doc.Assets, model.Asset{
			Index:             r.Index,
			TypeID:            model.AssetTypeID(r.TypeID),
			TypeOther:         r.TypeOther,
			Name:              r.Name,
			DateAcquiringType: model.DateType(r.DateAcquiringTypeID),
			AcquiringDate:     r.AcquiringDate,
			AcquiringMonth:    r.AcquiringMonth,
			AcquiringYear:     r.AcquiringYear,
			DateEndingType:    model.DateType(r.DateEndingTypeID),
			EndingDate:        r.EndingDate,
			EndingMonth:       r.EndingMonth,
			EndingYear:        r.EndingYear,
			Valuation:         r.Valuation,
			OwnerBySubmitter:  r.OwnerBySubmitter,
			OwnerBySpouse:     r.OwnerBySpouse,
			OwnerByChild:      r.OwnerByChild,
		})
	}
	sort.Slice(doc.Assets, func(i, j int) bool { return doc.Assets[i].Index < doc.Assets[j].Index })

	byIndex := make(map[int]*model.Asset, len(doc.Assets))
	for i := range doc.Assets {
		byIndex[doc.Assets[i].Index] = &doc.Assets[i]
	}

	lands, err := readTable[landRow](l.dir, "asset_land_info.csv")
	if err != nil {
		return err
	}
	for _, r := range lands {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		if a := byIndex[r.AssetIndex]; a != nil {
			a.Land = &model.LandInfo{
				DocNumber:   r.DocNumber,
				Rai:         r.Rai,
				Ngan:        r.Ngan,
				SqWa:        r.SqWa,
				SubDistrict: r.SubDistrict,
				District:    r.District,
				Province:    r.Province,
			}
		}
	}

	buildings, err := readTable[buildingRow](l.dir, "asset_building_info.csv")
	if err != nil {
		return err
	}
	for _, r := range buildings {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		if a := byIndex[r.AssetIndex]; a != nil {
			a.Building = &model.BuildingInfo{
				DocNumber:   r.DocNumber,
				SubDistrict: r.SubDistrict,
				District:    r.District,
				Province:    r.Province,
			}
		}
	}

	vehicles, err := readTable[vehicleRow](l.dir, "asset_vehicle_info.csv")
	if err != nil {
		return err
	}
	for _, r := range vehicles {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		if a := byIndex[r.AssetIndex]; a != nil {
			a.Vehicle = &model.VehicleInfo{
				RegistrationNumber:   r.RegistrationNumber,
				Brand:                r.VehicleBrand,
				Model:                r.VehicleModel,
				RegistrationProvince: r.RegistrationProvince,
			}
		}
	}

	others, err := readTable[otherRow](l.dir, "asset_other_asset_info.csv")
	if err != nil {
		return err
	}
	for _, r := range others {
		if r.SubmitterID != submitterID || r.NaccID != naccID {
			continue
		}
		if a := byIndex[r.AssetIndex]; a != nil {
			a.Other = &model.OtherAssetInfo{
				Count: r.Count,
				Unit:  r.Unit,
			}
		}
	}
	return nil
}

// readTable reads one ground-truth table, trying the plain name first and the
// Train_ prefixed variant second. A missing or empty file yields no rows.
func readTable[T any](dir, name string) ([]T, error) {
	for _, candidate := range []string{name, "Train_" + name} {
		raw, err := os.ReadFile(filepath.Join(dir, candidate))
		if err != nil {
			continue
		}
		return decodeTable[T](raw, candidate)
	}
	return nil, nil
}

func decodeTable[T any](raw []byte, name string) ([]T, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec, err := csvutil.NewDecoder(csv.NewReader(bytes.NewReader(raw)))
	if err != nil {
		return nil, eris.Wrapf(err, "gtruth: read header of %s", name)
	}
	dec.Register(decodeLooseInt)
	dec.Register(decodeLooseFloat)

	var rows []T
	for {
		var row T
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "gtruth: parse %s", name)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeLooseInt accepts the float renderings that spreadsheet exports give
// nullable integer columns ("54.0" for 54). The exports render nulls as
// "NONE" in some tables.
func decodeLooseInt(data []byte, v *int) error {
	s := strings.TrimSpace(string(data))
	if s == "" || strings.EqualFold(s, "none") {
		*v = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*v = n
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return eris.Wrapf(err, "gtruth: integer %q", s)
	}
	*v = int(math.Round(f))
	return nil
}

// decodeLooseFloat tolerates thousands separators in valuation columns.
func decodeLooseFloat(data []byte, v *float64) error {
	s := strings.ReplaceAll(strings.TrimSpace(string(data)), ",", "")
	if s == "" || strings.EqualFold(s, "none") {
		*v = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return eris.Wrapf(err, "gtruth: number %q", s)
	}
	*v = f
	return nil
}
