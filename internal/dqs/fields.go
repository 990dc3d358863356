package dqs

import (
	"math"
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// normText prepares a string for comparison: trim, case-fold, NFC so Thai
// combining marks compare equal regardless of codepoint order. The literal
// "NONE" is a null marker in the ground-truth exports and maps to empty.
func normText(s string) string {
	s = norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
	if s == "none" {
		return ""
	}
	return s
}

// textScore is 1 - CER, where CER is the Levenshtein distance over the
// ground-truth length. Empty strings stand for null.
func textScore(pred, truth string) float64 {
	p := normText(pred)
	t := normText(truth)

	if t == "" && p == "" {
		return 1.0
	}
	if t == "" || p == "" {
		return 0.0
	}

	dist := levenshtein.Distance(p, t, nil)
	cer := float64(dist) / float64(len([]rune(t)))
	return math.Max(0, 1-cer)
}

// numericScore is 1 - relative error against the ground-truth magnitude.
func numericScore(pred, truth *float64) float64 {
	if pred == nil && truth == nil {
		return 1.0
	}
	if pred == nil || truth == nil {
		return 0.0
	}
	if *truth == 0 {
		if *pred == 0 {
			return 1.0
		}
		return 0.0
	}
	relErr := math.Abs(*pred-*truth) / math.Abs(*truth)
	return math.Max(0, 1-relErr)
}

// intScore compares optional integers exactly (ages, counts).
func intScore(pred, truth *int) float64 {
	if pred == nil && truth == nil {
		return 1.0
	}
	if pred == nil || truth == nil {
		return 0.0
	}
	if *pred == *truth {
		return 1.0
	}
	pf, tf := float64(*pred), float64(*truth)
	return numericScore(&pf, &tf)
}

// enumScore is exact match on canonical codes.
func enumScore[T ~int](pred, truth T) float64 {
	if pred == truth {
		return 1.0
	}
	return 0.0
}

// boolScore is exact match.
func boolScore(pred, truth bool) float64 {
	if pred == truth {
		return 1.0
	}
	return 0.0
}

// dateScore grades a day/month/year triple on a tolerance ladder: exact 1.0,
// within 3 days 0.8, same month and year 0.5, same year 0.3, else 0.0.
func dateScore(predDay, predMonth, predYear, truthDay, truthMonth, truthYear *int) float64 {
	predNull := predDay == nil && predMonth == nil && predYear == nil
	truthNull := truthDay == nil && truthMonth == nil && truthYear == nil
	if predNull && truthNull {
		return 1.0
	}
	if predNull || truthNull {
		return 0.0
	}

	if !intEqual(predYear, truthYear) {
		return 0.0
	}
	if !intEqual(predMonth, truthMonth) {
		return 0.3
	}
	if intEqual(predDay, truthDay) {
		return 1.0
	}
	if predDay == nil || truthDay == nil {
		return 0.5
	}
	if diff := *predDay - *truthDay; diff <= 3 && diff >= -3 {
		return 0.8
	}
	return 0.5
}

func intEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
