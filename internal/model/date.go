package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// beOffset is the fixed offset between the Buddhist and Common Era calendars.
const beOffset = 543

// minPlausibleCE is the earliest CE year a declaration can plausibly mention.
// Anything earlier signals a misread digit rather than a historical date.
const minPlausibleCE = 1850

// ErrInvalidYear is returned when a Buddhist Era year cannot be a real
// declaration date.
var ErrInvalidYear = eris.New("invalid Buddhist Era year")

// ToCommonEra converts a Buddhist Era year to Common Era. The input must be
// positive and the result must land between 1850 and next year inclusive.
func ToCommonEra(beYear int) (int, error) {
	if beYear <= 0 {
		return 0, eris.Wrapf(ErrInvalidYear, "year %d is not positive", beYear)
	}
	ce := beYear - beOffset
	maxCE := time.Now().Year() + 1
	if ce < minPlausibleCE || ce > maxCE {
		return 0, eris.Wrapf(ErrInvalidYear, "BE %d converts to CE %d, outside [%d, %d]", beYear, ce, minPlausibleCE, maxCE)
	}
	return ce, nil
}
