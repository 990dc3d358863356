package export

// Output row structs follow the submission CSV headers, including the
// dataset's misspelled district columns in the land table.

type submitterOut struct {
	SubmitterID int    `csv:"submitter_id"`
	Title       string `csv:"title"`
	FirstName   string `csv:"first_name"`
	LastName    string `csv:"last_name"`
	Age         *int   `csv:"age"`
	Status      string `csv:"status"`
	StatusDate  *int   `csv:"status_date"`
	StatusMonth *int   `csv:"status_month"`
	StatusYear  *int   `csv:"status_year"`
	SubDistrict string `csv:"sub_district"`
	District    string `csv:"district"`
	Province    string `csv:"province"`
	PostCode    string `csv:"post_code"`
	Submitted   string `csv:"latest_submitted_date"`
}

type spouseOut struct {
	SpouseID    int    `csv:"spouse_id"`
	SubmitterID int    `csv:"submitter_id"`
	NaccID      int    `csv:"nacc_id"`
	Title       string `csv:"title"`
	FirstName   string `csv:"first_name"`
	LastName    string `csv:"last_name"`
	Age         *int   `csv:"age"`
	Status      string `csv:"status"`
	StatusDate  *int   `csv:"status_date"`
	StatusMonth *int   `csv:"status_month"`
	StatusYear  *int   `csv:"status_year"`
	Submitted   string `csv:"latest_submitted_date"`
}

type oldNameOut struct {
	SubmitterID int    `csv:"submitter_id"`
	NaccID      int    `csv:"nacc_id"`
	Index       int    `csv:"index"`
	Title       string `csv:"title"`
	FirstName   string `csv:"first_name"`
	LastName    string `csv:"last_name"`
	Submitted   string `csv:"latest_submitted_date"`
}

type positionOut struct {
	SpouseID          int    `csv:"spouse_id,omitempty"`
	SubmitterID       int    `csv:"submitter_id"`
	NaccID            int    `csv:"nacc_id"`
	PeriodTypeID      int    `csv:"position_period_type_id"`
	Index             int    `csv:"index"`
	Position          string `csv:"position"`
	CategoryTypeID    int    `csv:"position_category_type_id"`
	Workplace         string `csv:"workplace"`
	WorkplaceLocation string `csv:"workplace_location"`
	StartDate         *int   `csv:"start_date"`
	StartMonth        *int   `csv:"start_month"`
	StartYear         *int   `csv:"start_year"`
	EndDate           *int   `csv:"end_date"`
	EndMonth          *int   `csv:"end_month"`
	EndYear           *int   `csv:"end_year"`
	Note              string `csv:"note"`
	Submitted         string `csv:"latest_submitted_date"`
}

type relativeOut struct {
	RelativeID     int    `csv:"relative_id"`
	SubmitterID    int    `csv:"submitter_id"`
	NaccID         int    `csv:"nacc_id"`
	Index          int    `csv:"index"`
	RelationshipID int    `csv:"relationship_id"`
	Title          string `csv:"title"`
	FirstName      string `csv:"first_name"`
	LastName       string `csv:"last_name"`
	Age            *int   `csv:"age"`
	Occupation     string `csv:"occupation"`
	Workplace      string `csv:"workplace"`
	IsDeceased     bool   `csv:"is_deceased"`
	Submitted      string `csv:"latest_submitted_date"`
}

type statementOut struct {
	NaccID             int      `csv:"nacc_id"`
	StatementTypeID    int      `csv:"statement_type_id"`
	ValuationSubmitter *float64 `csv:"valuation_submitter"`
	SubmitterID        int      `csv:"submitter_id"`
	ValuationSpouse    *float64 `csv:"valuation_spouse"`
	ValuationChild     *float64 `csv:"valuation_child"`
	Submitted          string   `csv:"latest_submitted_date"`
}

type detailOut struct {
	NaccID             int      `csv:"nacc_id"`
	SubmitterID        int      `csv:"submitter_id"`
	DetailTypeID       int      `csv:"statement_detail_type_id"`
	Index              int      `csv:"index"`
	Detail             string   `csv:"detail"`
	ValuationSubmitter *float64 `csv:"valuation_submitter"`
	ValuationSpouse    *float64 `csv:"valuation_spouse"`
	ValuationChild     *float64 `csv:"valuation_child"`
	Note               string   `csv:"note"`
	Submitted          string   `csv:"latest_submitted_date"`
}

type assetOut struct {
	AssetID             int      `csv:"asset_id"`
	SubmitterID         int      `csv:"submitter_id"`
	NaccID              int      `csv:"nacc_id"`
	Index               int      `csv:"index"`
	TypeID              int      `csv:"asset_type_id"`
	TypeOther           string   `csv:"asset_type_other"`
	Name                string   `csv:"asset_name"`
	DateAcquiringTypeID int      `csv:"date_acquiring_type_id"`
	AcquiringDate       *int     `csv:"acquiring_date"`
	AcquiringMonth      *int     `csv:"acquiring_month"`
	AcquiringYear       *int     `csv:"acquiring_year"`
	DateEndingTypeID    int      `csv:"date_ending_type_id"`
	EndingDate          *int     `csv:"ending_date"`
	EndingMonth         *int     `csv:"ending_month"`
	EndingYear          *int     `csv:"ending_year"`
	Valuation           *float64 `csv:"valuation"`
	OwnerBySubmitter    bool     `csv:"owner_by_submitter"`
	OwnerBySpouse       bool     `csv:"owner_by_spouse"`
	OwnerByChild        bool     `csv:"owner_by_child"`
	Submitted           string   `csv:"latest_submitted_date"`
}

type landOut struct {
	AssetID     int      `csv:"asset_id"`
	SubmitterID int      `csv:"submitter_id"`
	NaccID      int      `csv:"nacc_id"`
	AssetIndex  int      `csv:"asset_index"`
	DocNumber   string   `csv:"land_doc_number"`
	Rai         *float64 `csv:"rai"`
	Ngan        *float64 `csv:"ngan"`
	SqWa        *float64 `csv:"sq_wa"`
	SubDistrict string   `csv:"sub_distirict"`
	District    string   `csv:"distirict"`
	Province    string   `csv:"province"`
	Submitted   string   `csv:"latest_submitted_date"`
}

type buildingOut struct {
	AssetID     int    `csv:"asset_id"`
	SubmitterID int    `csv:"submitter_id"`
	NaccID      int    `csv:"nacc_id"`
	AssetIndex  int    `csv:"asset_index"`
	DocNumber   string `csv:"building_doc_number"`
	SubDistrict string `csv:"sub_district"`
	District    string `csv:"district"`
	Province    string `csv:"province"`
	Submitted   string `csv:"latest_submitted_date"`
}

type vehicleOut struct {
	AssetID              int    `csv:"asset_id"`
	SubmitterID          int    `csv:"submitter_id"`
	NaccID               int    `csv:"nacc_id"`
	AssetIndex           int    `csv:"asset_index"`
	RegistrationNumber   string `csv:"registration_number"`
	VehicleBrand         string `csv:"vehicle_brand"`
	VehicleModel         string `csv:"vehicle_model"`
	RegistrationProvince string `csv:"registration_province"`
	Submitted            string `csv:"latest_submitted_date"`
}

type otherOut struct {
	AssetID     int    `csv:"asset_id"`
	SubmitterID int    `csv:"submitter_id"`
	NaccID      int    `csv:"nacc_id"`
	AssetIndex  int    `csv:"asset_index"`
	Count       *int   `csv:"count"`
	Unit        string `csv:"unit"`
	Submitted   string `csv:"latest_submitted_date"`
}
