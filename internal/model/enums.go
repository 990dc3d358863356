package model

// AssetTypeID identifies an asset type from the NACC asset_type lookup table.
// IDs 1-35 are concrete types; 36-39 are the per-band "other" variants.
type AssetTypeID int

const (
	AssetLandChanot    AssetTypeID = 1
	AssetLandSPK       AssetTypeID = 2
	AssetLandSPK401    AssetTypeID = 3
	AssetLandNS3       AssetTypeID = 4
	AssetLandNS3K      AssetTypeID = 5
	AssetLandPBT5      AssetTypeID = 6
	AssetLandCondoUnit AssetTypeID = 7
	AssetLandContract  AssetTypeID = 8
	AssetLandNK3       AssetTypeID = 9

	AssetBuildingHouse     AssetTypeID = 10
	AssetBuildingBuilding  AssetTypeID = 11
	AssetBuildingTower     AssetTypeID = 12
	AssetBuildingCondo     AssetTypeID = 13
	AssetBuildingCondoAlt  AssetTypeID = 14
	AssetBuildingDormitory AssetTypeID = 15
	AssetBuildingParking   AssetTypeID = 16
	AssetBuildingFactory   AssetTypeID = 17

	AssetVehicleCar        AssetTypeID = 18
	AssetVehicleMotorcycle AssetTypeID = 19
	AssetVehicleBoat       AssetTypeID = 20
	AssetVehiclePlane      AssetTypeID = 21

	AssetRightsInsurance  AssetTypeID = 22
	AssetRightsContract   AssetTypeID = 23
	AssetRightsMembership AssetTypeID = 24
	AssetRightsFund       AssetTypeID = 25
	AssetRightsPension    AssetTypeID = 26
	AssetRightsAuction    AssetTypeID = 27

	AssetOtherBag        AssetTypeID = 28
	AssetOtherGun        AssetTypeID = 29
	AssetOtherWatch      AssetTypeID = 30
	AssetOtherJewelry    AssetTypeID = 31
	AssetOtherAmulet     AssetTypeID = 32
	AssetOtherGold       AssetTypeID = 33
	AssetOtherArt        AssetTypeID = 34
	AssetOtherCollection AssetTypeID = 35

	AssetLandOther     AssetTypeID = 36
	AssetBuildingOther AssetTypeID = 37
	AssetVehicleOther  AssetTypeID = 38
	AssetRightsOther   AssetTypeID = 39
)

// AssetBand groups asset types into the five declaration sections.
type AssetBand string

const (
	BandLand     AssetBand = "land"
	BandBuilding AssetBand = "building"
	BandVehicle  AssetBand = "vehicle"
	BandRights   AssetBand = "rights"
	BandOther    AssetBand = "other"
	BandInvalid  AssetBand = ""
)

// Band returns the declaration section an asset type belongs to.
func (id AssetTypeID) Band() AssetBand {
	switch {
	case (id >= 1 && id <= 9) || id == AssetLandOther:
		return BandLand
	case (id >= 10 && id <= 17) || id == AssetBuildingOther:
		return BandBuilding
	case (id >= 18 && id <= 21) || id == AssetVehicleOther:
		return BandVehicle
	case (id >= 22 && id <= 27) || id == AssetRightsOther:
		return BandRights
	case id >= 28 && id <= 35:
		return BandOther
	default:
		return BandInvalid
	}
}

// Valid reports whether the ID is a known asset type.
func (id AssetTypeID) Valid() bool {
	return id >= 1 && id <= 39
}

// Relationship identifies a relative's relationship to the submitter.
type Relationship int

const (
	RelFather       Relationship = 1
	RelMother       Relationship = 2
	RelSibling      Relationship = 3
	RelChild        Relationship = 4
	RelSpouseFather Relationship = 5
	RelSpouseMother Relationship = 6
)

// Valid reports whether the relationship ID is in the known range.
func (r Relationship) Valid() bool { return r >= 1 && r <= 6 }

// PositionPeriod classifies when a position was or is held.
type PositionPeriod int

const (
	PeriodCurrent    PositionPeriod = 1
	PeriodConcurrent PositionPeriod = 2
	PeriodPast       PositionPeriod = 3
)

// StatementType identifies a row of the financial summary table.
type StatementType int

const (
	StatementIncome      StatementType = 1
	StatementExpense     StatementType = 2
	StatementNet         StatementType = 3
	StatementAssets      StatementType = 4
	StatementLiabilities StatementType = 5
)

// Valid reports whether the statement type is in the known range.
func (t StatementType) Valid() bool { return t >= 1 && t <= 5 }

// DateType records how precisely a date was declared.
type DateType int

const (
	DateExact        DateType = 1
	DateApproximate  DateType = 2
	DateNotSpecified DateType = 3
	DateNone         DateType = 4
)
