package analyzer

import (
	"fmt"

	"github.com/gzhole/termshield/internal/patterns"
	"github.com/gzhole/termshield/internal/risk"
)

// combine merges matches into a Result using most-restrictive escalation:
// the verdict is the highest level among all matches and never goes down
// as more matches are folded in.
//
// Every match adds a warning. High and dangerous matches, and anything from
// the injection pass regardless of level, also add an error.
func combine(matches []Match, allowDangerous bool) Result {
	result := Result{
		Valid:     true,
		RiskLevel: risk.Safe,
		Warnings:  []string{},
		Errors:    []string{},
		Matches:   matches,
	}

	for _, m := range matches {
		result.RiskLevel = risk.Max(result.RiskLevel, m.Level)

		msg := describe(m)
		result.Warnings = append(result.Warnings, msg)
		if m.Level >= risk.High || m.Pass == patterns.PassInjection {
			result.Errors = append(result.Errors, msg)
		}
	}

	result.Valid = result.RiskLevel != risk.Dangerous || allowDangerous
	return result
}

func describe(m Match) string {
	return fmt.Sprintf("%s: %s [%s]", m.Level, m.Message, m.ID)
}
