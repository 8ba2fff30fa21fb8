// Package testdata is the labeled command corpus the classifier is
// measured against.
package testdata

import "github.com/gzhole/termshield/internal/risk"

// TestCase is one labeled command.
//
// Naming convention for IDs:
//
//	TP-<AREA>-<NNN>  True Positive: risky command classified at the expected level
//	TN-<AREA>-<NNN>  True Negative: benign command left safe
//	FP-<AREA>-<NNN>  False Positive: benign command flagged today
//	FN-<AREA>-<NNN>  False Negative: risky command the pattern table misses
type TestCase struct {
	ID string

	// Command is the raw command line, exactly as a user or assistant typed it.
	Command string

	// ExpectedLevel is the correct classification. For FP and FN cases it is
	// the level we want, not the level we currently get.
	ExpectedLevel risk.Level

	// Classification is one of AllClassifications.
	Classification string

	// Category is the kind of harm the command is (or resembles).
	Category risk.Category

	// Description says why the expected level is right. Keep it to a few
	// lines; the first line is printed on failure.
	Description string

	// Tags for filtering:
	//   "canonical"          the most basic form of a weakness
	//   "flag-normalization" equivalent flag spellings
	//   "quoting"            quotes around the dangerous part
	//   "wrapper"            sudo, env, timeout... in front of the command
	//   "string-literal"     dangerous text that is only data
	//   "indirect-execution" code run through bash -c, python -c...
	//   "known-gap"          documents a detection limitation
	//   "common-dev-operation" everyday developer workflow
	Tags []string
}

// AllClassifications is the set of valid Classification values.
var AllClassifications = []string{"TP", "TN", "FP", "FN"}
