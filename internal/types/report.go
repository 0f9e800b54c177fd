package types

import "sort"

// WarningType classifies a warning. The set is closed; values appear
// verbatim in the JSON report.
type WarningType string

const (
	WarnArgs         WarningType = "Args"
	WarnInput        WarningType = "Input"
	WarnFingerprint  WarningType = "Fingerprint"
	WarnTokenization WarningType = "Tokenization"
)

// Warning is a non-fatal diagnostic accumulated during a run.
type Warning struct {
	File    string      `json:"file,omitempty"`
	Message string      `json:"message"`
	Type    WarningType `json:"warn_type"`
}

// SortWarnings orders warnings by type, file and message so that every
// stage's accumulated diagnostics serialize deterministically.
func SortWarnings(warnings []Warning) {
	sort.Slice(warnings, func(i, j int) bool {
		if warnings[i].Type != warnings[j].Type {
			return warnings[i].Type < warnings[j].Type
		}
		if warnings[i].File != warnings[j].File {
			return warnings[i].File < warnings[j].File
		}
		return warnings[i].Message < warnings[j].Message
	})
}

// Location pins one side of a match to a byte range in a file.
type Location struct {
	File string `json:"file"`
	Span Span   `json:"span"`
}

// Match is one aligned run between two projects, already split so that each
// side lies within a single file.
type Match struct {
	Project1Location Location `json:"project_1_location"`
	Project2Location Location `json:"project_2_location"`
}

// ProjectPair groups all matches between two projects. Project1 is always
// lexicographically less than Project2.
type ProjectPair struct {
	Project1 string  `json:"project1"`
	Project2 string  `json:"project2"`
	Matches  []Match `json:"matches"`
}

// Report is the full output of a run. Both fields are always non-nil so the
// serialized form is well-formed even when empty.
type Report struct {
	Warnings     []Warning     `json:"warnings"`
	ProjectPairs []ProjectPair `json:"project_pairs"`
}
