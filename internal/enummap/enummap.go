// Package enummap resolves free-form extracted text to canonical NACC lookup
// codes. Extraction output is noisy, so resolution never fails: unresolvable
// input maps to Unknown and the caller decides what to do with it.
package enummap

import (
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// Category selects which lookup table a value is resolved against.
type Category int

const (
	AssetType Category = iota
	Relationship
	StatementType
	PositionPeriod
)

func (c Category) String() string {
	switch c {
	case AssetType:
		return "asset_type"
	case Relationship:
		return "relationship"
	case StatementType:
		return "statement_type"
	case PositionPeriod:
		return "position_period"
	default:
		return "unknown"
	}
}

// Unknown is the sentinel code for values no table entry resolves.
const Unknown = 0

// fuzzyThreshold is the minimum Levenshtein similarity for a fuzzy hit.
// Thai labels are short, so anything looser produces false positives.
const fuzzyThreshold = 0.82

// Mapper holds one lookup table per category. Zero value is not usable;
// construct with New.
type Mapper struct {
	tables map[Category]map[string]int
}

// New returns a Mapper preloaded with the built-in NACC lookup tables.
func New() *Mapper {
	m := &Mapper{tables: make(map[Category]map[string]int, 4)}
	m.tables[AssetType] = cloneTable(assetTypeTable)
	m.tables[Relationship] = cloneTable(relationshipTable)
	m.tables[StatementType] = cloneTable(statementTypeTable)
	m.tables[PositionPeriod] = cloneTable(positionPeriodTable)
	return m
}

func cloneTable(src map[string]int) map[string]int {
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// normalize folds case, trims whitespace, and applies NFC so visually
// identical Thai strings with different codepoint sequences compare equal.
func normalize(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// MapValue resolves raw against the table for category. Resolution order is
// exact match, substring match in either direction, then fuzzy match. Returns
// Unknown when nothing clears the threshold.
func (m *Mapper) MapValue(raw string, category Category) int {
	table, ok := m.tables[category]
	if !ok {
		return Unknown
	}
	key := normalize(raw)
	if key == "" {
		return Unknown
	}

	if code, ok := table[key]; ok {
		return code
	}

	// Longest matching label wins so "สัญญาซื้อขาย" is not claimed by the
	// shorter "สัญญา" entry. Ties break lexicographically for determinism.
	bestLabel := ""
	bestCode := Unknown
	for label, code := range table {
		if !strings.Contains(key, label) && !strings.Contains(label, key) {
			continue
		}
		if len(label) > len(bestLabel) || (len(label) == len(bestLabel) && label < bestLabel) {
			bestLabel, bestCode = label, code
		}
	}
	if bestCode != Unknown {
		return bestCode
	}

	bestScore := 0.0
	bestLabel = ""
	for label, code := range table {
		score := levenshtein.Similarity(key, label, nil)
		if score > bestScore || (score == bestScore && bestLabel != "" && label < bestLabel) {
			bestScore, bestLabel, bestCode = score, label, code
		}
	}
	if bestScore >= fuzzyThreshold {
		return bestCode
	}
	return Unknown
}

// MapAssetType resolves an asset type from its main and sub labels. The sub
// label is more specific and wins when it resolves; otherwise the main label
// decides.
func (m *Mapper) MapAssetType(mainType, subType string) int {
	if code := m.MapValue(subType, AssetType); code != Unknown {
		return code
	}
	return m.MapValue(mainType, AssetType)
}
