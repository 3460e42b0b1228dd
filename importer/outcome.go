package importer

import (
	"errors"
	"fmt"
)

// Stage is how far a file got through the import.
type Stage int

const (
	StagePendingAncestors Stage = iota
	StageTextLoaded
	StagePreParsed
	StageConverted
	StagePostParsed
	StageTablesExtracted
	StagePageCreated
	StageTablesMaterialized
	StageDone
)

// The stages a file passes through after its folders are resolved, each reported once.
var fileStages = []Stage{
	StageTextLoaded,
	StagePreParsed,
	StageConverted,
	StagePostParsed,
	StageTablesExtracted,
	StagePageCreated,
	StageTablesMaterialized,
}

func (s Stage) String() string {
	switch s {
	case StagePendingAncestors:
		return "pending-ancestors"
	case StageTextLoaded:
		return "text-loaded"
	case StagePreParsed:
		return "pre-parsed"
	case StageConverted:
		return "converted"
	case StagePostParsed:
		return "post-parsed"
	case StageTablesExtracted:
		return "tables-extracted"
	case StagePageCreated:
		return "page-created"
	case StageTablesMaterialized:
		return "tables-materialized"
	case StageDone:
		return "done"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

func (s Stage) action() string {
	switch s {
	case StageTextLoaded:
		return "read file"
	case StagePreParsed:
		return "run pre-parse hooks"
	case StageConverted:
		return "convert Markdown"
	case StagePostParsed:
		return "run post-parse hooks"
	case StagePageCreated:
		return "create page"
	case StageTablesMaterialized:
		return "create databases"
	}
	return "reach " + s.String()
}

// StageError is why a file failed: the stage it couldn't reach, and the cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("couldn't %s: %v", e.Stage.action(), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "Skipped"
	case StatusFailed:
		return "Error"
	default:
		return "OK"
	}
}

// FileOutcome is how the import of one file ended.
type FileOutcome struct {
	File   string
	Status Status
	// Last stage reached.
	Stage Stage
	// Set once the document page exists, even if the file later failed.
	PageID string
	Tables int
	Err    error
}

func (o FileOutcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// FailedAt reports the stage the outcome's error happened at, if any.
func (o FileOutcome) FailedAt() (Stage, bool) {
	var se *StageError
	if errors.As(o.Err, &se) {
		return se.Stage, true
	}
	return 0, false
}
