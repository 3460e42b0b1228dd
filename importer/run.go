package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
)

var ErrNoPagesFound = errors.New("importer: no pages found")

// ErrInvalidPageID is returned for a base page ID that isn't a UUID.
var ErrInvalidPageID = errors.New("importer: invalid page ID")

// Choice is one entry offered by a Selector.
type Choice struct {
	Label string
	Value string
}

// Selector asks the user to pick one of several choices.  ok is false if they gave up.
type Selector interface {
	Select(ctx context.Context, choices []Choice) (value string, ok bool, err error)
}

// TargetFromID uses a page ID as the target without looking it up.
func TargetFromID(id string) (Target, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Target{}, fmt.Errorf("%w '%s': %w", ErrInvalidPageID, id, err)
	}
	return Target{PageID: parsed.String(), Title: id}, nil
}

// ResolveTarget searches for pages matching query and settles on one: automatically if there's
// only one, otherwise by asking sel.  ok is false if the user aborted the selection.
func (im *Importer) ResolveTarget(ctx context.Context, query string, sel Selector) (Target, bool, error) {
	callCtx, cancel := im.callContext(ctx)
	pages, err := im.Service.SearchPages(callCtx, query)
	cancel()
	if err != nil {
		return Target{}, false, fmt.Errorf("importer: couldn't search pages: %w", err)
	}

	switch len(pages) {
	case 0:
		return Target{}, false, ErrNoPagesFound
	case 1:
		im.Logger.Debug("only one page found, selecting it", "page", pages[0].ID, "title", pages[0].Title)
		return Target{PageID: pages[0].ID, Title: pages[0].Title}, true, nil
	}

	choices := make([]Choice, 0, len(pages))
	titles := map[string]string{}
	for _, p := range pages {
		choices = append(choices, Choice{Label: p.Title, Value: p.ID})
		titles[p.ID] = p.Title
	}

	id, ok, err := sel.Select(ctx, choices)
	if err != nil {
		return Target{}, false, fmt.Errorf("importer: couldn't select page: %w", err)
	}
	if !ok {
		return Target{}, false, nil
	}
	return Target{PageID: id, Title: titles[id]}, true, nil
}

// Report is what a run did.
type Report struct {
	Target   Target
	Outcomes []FileOutcome
	// Files never started because the run was cancelled.
	Interrupted []string
}

// Count returns how many outcomes have the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

func (r *Report) Failed() bool {
	return r.Count(StatusFailed) > 0
}

type ReportEntry struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

type ErrorReport struct {
	Errors []ReportEntry `json:"errors"`
}

// ErrorReport lists every failed file with its error message.
func (r *Report) ErrorReport() ErrorReport {
	report := ErrorReport{Errors: []ReportEntry{}}
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			report.Errors = append(report.Errors, ReportEntry{File: o.File, Message: o.Message()})
		}
	}
	return report
}

// Run imports files in order, one at a time.  It stops early, without error, if ctx is
// cancelled; files not attempted are listed in the report.
func (im *Importer) Run(ctx context.Context, target Target, files []string) *Report {
	report := &Report{Target: target, Outcomes: make([]FileOutcome, 0, len(files))}
	im.Observer.RunStarted(len(files))
	im.Logger.Debug("starting import", "target", target.PageID, "files", len(files))

	for i, file := range files {
		if ctx.Err() != nil {
			im.Logger.Warn("import interrupted", "remaining", len(files)-i)
			report.Interrupted = append(report.Interrupted, files[i:]...)
			break
		}
		report.Outcomes = append(report.Outcomes, im.ImportFile(ctx, target, file))
	}

	return report
}

// WriteErrorReport writes the failures in r to path as indented JSON.
func WriteErrorReport(path string, r *Report) error {
	out, err := json.MarshalIndent(r.ErrorReport(), "", "  ")
	if err != nil {
		return fmt.Errorf("importer: couldn't marshal error report: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("importer: couldn't write error report to %s: %w", path, err)
	}
	return nil
}
