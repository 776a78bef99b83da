package models

// ConflictType classifies a schedule conflict.
type ConflictType string

const (
	ConflictTimeOverlap ConflictType = "time_overlap"
	// Reserved; the detector only reports time overlaps today.
	ConflictSamePeriod        ConflictType = "same_period"
	ConflictInsufficientBreak ConflictType = "insufficient_break"
)

// Conflict describes two sections whose periods overlap on a shared day.
type Conflict struct {
	Section1     *Section     `json:"section1"`
	Section2     *Section     `json:"section2"`
	ConflictType ConflictType `json:"conflictType"`
	Description  string       `json:"description"`
}

// ConflictReport summarises the conflicts of a set of sections.
type ConflictReport struct {
	Conflicts []Conflict `json:"conflicts"`
	IsValid   bool       `json:"isValid"`
	Checked   int        `json:"checked"`
}
