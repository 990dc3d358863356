package model

import "fmt"

// SubmitterInfo holds the identity block of the person filing the declaration.
type SubmitterInfo struct {
	Title       string `json:"title"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Age         *int   `json:"age"`
	Status      string `json:"status"`
	StatusDate  *int   `json:"status_date"`
	StatusMonth *int   `json:"status_month"`
	StatusYear  *int   `json:"status_year"`
	SubDistrict string `json:"sub_district"`
	District    string `json:"district"`
	Province    string `json:"province"`
	PostCode    string `json:"post_code"`
}

// SpouseInfo holds the spouse identity block. A nil *SpouseInfo means the
// declaration lists no spouse.
type SpouseInfo struct {
	Title       string `json:"title"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Age         *int   `json:"age"`
	Status      string `json:"status"`
	StatusDate  *int   `json:"status_date"`
	StatusMonth *int   `json:"status_month"`
	StatusYear  *int   `json:"status_year"`
}

// OldName is a previous legal name of the submitter or spouse.
type OldName struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Position is a post held by the submitter or spouse.
type Position struct {
	PeriodType       PositionPeriod `json:"position_period_type_id"`
	Index            int            `json:"index"`
	Position         string         `json:"position"`
	CategoryType     int            `json:"position_category_type_id"`
	Workplace        string         `json:"workplace"`
	WorkplaceAddress string         `json:"workplace_location"`
	StartDate        *int           `json:"start_date"`
	StartMonth       *int           `json:"start_month"`
	StartYear        *int           `json:"start_year"`
	EndDate          *int           `json:"end_date"`
	EndMonth         *int           `json:"end_month"`
	EndYear          *int           `json:"end_year"`
	Note             string         `json:"note"`
}

// Relative is a family member listed in the declaration.
type Relative struct {
	Index      int          `json:"index"`
	Relation   Relationship `json:"relationship_id"`
	Title      string       `json:"title"`
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	Age        *int         `json:"age"`
	Occupation string       `json:"occupation"`
	Workplace  string       `json:"workplace"`
	IsDeceased bool         `json:"is_deceased"`
}

// Statement is one row of the financial summary table, with valuations split
// by owner column (submitter / spouse / dependent children).
type Statement struct {
	Type               StatementType `json:"statement_type_id"`
	ValuationSubmitter *float64      `json:"valuation_submitter"`
	ValuationSpouse    *float64      `json:"valuation_spouse"`
	ValuationChild     *float64      `json:"valuation_child"`
}

// StatementDetail is one line item of the income/expense or asset/liability
// breakdown tables.
type StatementDetail struct {
	DetailType         int      `json:"statement_detail_type_id"`
	Index              int      `json:"index"`
	Detail             string   `json:"detail"`
	ValuationSubmitter *float64 `json:"valuation_submitter"`
	ValuationSpouse    *float64 `json:"valuation_spouse"`
	ValuationChild     *float64 `json:"valuation_child"`
	Note               string   `json:"note"`
}

// LandInfo holds land-specific detail for land assets. Thai land area is
// declared as rai/ngan/square wa; ngan is always 0-3 since 4 ngan = 1 rai.
type LandInfo struct {
	DocNumber   string   `json:"land_doc_number"`
	Rai         *float64 `json:"rai"`
	Ngan        *float64 `json:"ngan"`
	SqWa        *float64 `json:"sq_wa"`
	SubDistrict string   `json:"sub_district"`
	District    string   `json:"district"`
	Province    string   `json:"province"`
}

// BuildingInfo holds building-specific detail.
type BuildingInfo struct {
	DocNumber   string `json:"building_doc_number"`
	SubDistrict string `json:"sub_district"`
	District    string `json:"district"`
	Province    string `json:"province"`
}

// VehicleInfo holds vehicle-specific detail.
type VehicleInfo struct {
	RegistrationNumber   string `json:"registration_number"`
	Brand                string `json:"vehicle_brand"`
	Model                string `json:"vehicle_model"`
	RegistrationProvince string `json:"registration_province"`
}

// OtherAssetInfo holds count/unit detail for the "other assets" band
// (bags, watches, gold, art, collections).
type OtherAssetInfo struct {
	Count *int   `json:"count"`
	Unit  string `json:"unit"`
}

// Asset is one declared asset. At most one of the four detail sub-records is
// set, matching the type's band.
type Asset struct {
	Index             int         `json:"index"`
	TypeID            AssetTypeID `json:"asset_type_id"`
	TypeMain          string      `json:"asset_type_main"`
	TypeSub           string      `json:"asset_type_sub"`
	TypeOther         string      `json:"asset_type_other"`
	Name              string      `json:"asset_name"`
	DateAcquiringType DateType    `json:"date_acquiring_type_id"`
	AcquiringDate     *int        `json:"acquiring_date"`
	AcquiringMonth    *int        `json:"acquiring_month"`
	AcquiringYear     *int        `json:"acquiring_year"`
	DateEndingType    DateType    `json:"date_ending_type_id"`
	EndingDate        *int        `json:"ending_date"`
	EndingMonth       *int        `json:"ending_month"`
	EndingYear        *int        `json:"ending_year"`
	Valuation         *float64    `json:"valuation"`
	OwnerBySubmitter  bool        `json:"owner_by_submitter"`
	OwnerBySpouse     bool        `json:"owner_by_spouse"`
	OwnerByChild      bool        `json:"owner_by_child"`

	Land     *LandInfo       `json:"land_info"`
	Building *BuildingInfo   `json:"building_info"`
	Vehicle  *VehicleInfo    `json:"vehicle_info"`
	Other    *OtherAssetInfo `json:"other_info"`
}

// DocumentRecordSet is the complete extraction result for one declaration.
// Asset indices are unique, contiguous, and start at 1.
type DocumentRecordSet struct {
	NaccID      int
	SubmitterID int

	Submitter          SubmitterInfo
	SubmitterOldNames  []OldName
	SubmitterPositions []Position
	Spouse             *SpouseInfo
	SpouseOldNames     []OldName
	SpousePositions    []Position
	Relatives          []Relative
	Statements         []Statement
	StatementDetails   []StatementDetail
	Assets             []Asset
}

// BatchResult is the structured output of one extraction call. It has the
// same shape as DocumentRecordSet but asset indices are batch-local and
// assets-only batches leave every non-asset section empty.
type BatchResult struct {
	Submitter          *SubmitterInfo    `json:"submitter"`
	SubmitterOldNames  []OldName         `json:"submitter_old_names"`
	SubmitterPositions []Position        `json:"submitter_positions"`
	Spouse             *SpouseInfo       `json:"spouse"`
	SpouseOldNames     []OldName         `json:"spouse_old_names"`
	SpousePositions    []Position        `json:"spouse_positions"`
	Relatives          []Relative        `json:"relatives"`
	Statements         []Statement       `json:"statements"`
	StatementDetails   []StatementDetail `json:"statement_details"`
	Assets             []Asset           `json:"assets"`
}

// HasNonAssetSections reports whether any section other than assets carries
// data. Used to flag assets-only batches that returned extra sections.
func (b *BatchResult) HasNonAssetSections() bool {
	return b.Submitter != nil || b.Spouse != nil ||
		len(b.SubmitterOldNames) > 0 || len(b.SubmitterPositions) > 0 ||
		len(b.SpouseOldNames) > 0 || len(b.SpousePositions) > 0 ||
		len(b.Relatives) > 0 || len(b.Statements) > 0 ||
		len(b.StatementDetails) > 0
}

// Problem is a non-fatal field-level validation finding.
type Problem struct {
	Record string
	Field  string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s.%s: %s", p.Record, p.Field, p.Reason)
}

// Validate checks required fields, value ranges, and enum membership across
// the record set. Findings are advisory: extraction noise is expected and
// must not abort the pipeline.
func (d *DocumentRecordSet) Validate() []Problem {
	var out []Problem

	if d.Submitter.FirstName == "" {
		out = append(out, Problem{"submitter_info", "first_name", "required field is empty"})
	}
	if d.Submitter.LastName == "" {
		out = append(out, Problem{"submitter_info", "last_name", "required field is empty"})
	}
	out = append(out, checkAge("submitter_info", d.Submitter.Age)...)

	if d.Spouse != nil {
		out = append(out, checkAge("spouse_info", d.Spouse.Age)...)
	}

	for i, r := range d.Relatives {
		if !r.Relation.Valid() {
			out = append(out, Problem{
				Record: fmt.Sprintf("relative_info[%d]", i),
				Field:  "relationship_id",
				Reason: fmt.Sprintf("unknown relationship %d", r.Relation),
			})
		}
		out = append(out, checkAge(fmt.Sprintf("relative_info[%d]", i), r.Age)...)
	}

	for i, s := range d.Statements {
		if !s.Type.Valid() {
			out = append(out, Problem{
				Record: fmt.Sprintf("statement[%d]", i),
				Field:  "statement_type_id",
				Reason: fmt.Sprintf("unknown statement type %d", s.Type),
			})
		}
	}

	for i, a := range d.Assets {
		rec := fmt.Sprintf("asset[%d]", i)
		if !a.TypeID.Valid() {
			out = append(out, Problem{rec, "asset_type_id", fmt.Sprintf("unknown asset type %d", a.TypeID)})
		}
		if a.Valuation != nil && *a.Valuation < 0 {
			out = append(out, Problem{rec, "valuation", "negative valuation"})
		}
		if p := checkAssetDetail(rec, a); p != nil {
			out = append(out, *p)
		}
	}

	if p := checkAssetIndices(d.Assets); p != nil {
		out = append(out, *p)
	}

	return out
}

func checkAge(record string, age *int) []Problem {
	if age == nil {
		return nil
	}
	if *age < 0 || *age > 150 {
		return []Problem{{record, "age", fmt.Sprintf("age %d out of range", *age)}}
	}
	return nil
}

// checkAssetDetail verifies the detail sub-record matches the type's band.
func checkAssetDetail(record string, a Asset) *Problem {
	band := a.TypeID.Band()
	switch {
	case a.Land != nil && band != BandLand:
		return &Problem{record, "land_info", fmt.Sprintf("land detail on %s asset", band)}
	case a.Building != nil && band != BandBuilding:
		return &Problem{record, "building_info", fmt.Sprintf("building detail on %s asset", band)}
	case a.Vehicle != nil && band != BandVehicle:
		return &Problem{record, "vehicle_info", fmt.Sprintf("vehicle detail on %s asset", band)}
	case a.Other != nil && band != BandOther:
		return &Problem{record, "other_info", fmt.Sprintf("other-asset detail on %s asset", band)}
	}
	return nil
}

// checkAssetIndices enforces the 1..N contiguity invariant.
func checkAssetIndices(assets []Asset) *Problem {
	for i, a := range assets {
		if a.Index != i+1 {
			return &Problem{
				Record: "asset",
				Field:  "index",
				Reason: fmt.Sprintf("index %d at position %d, want %d", a.Index, i, i+1),
			}
		}
	}
	return nil
}
