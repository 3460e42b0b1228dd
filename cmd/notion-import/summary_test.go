package main

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/toothbrush/notion-import/importer"
)

func TestRenderSummary(t *testing.T) {
	report := &importer.Report{
		Target: importer.Target{PageID: "p1", Title: "Docs"},
		Outcomes: []importer.FileOutcome{
			{File: "a.md", Status: importer.StatusOK, Tables: 2},
			{File: "b.md", Status: importer.StatusSkipped},
			{File: "c.md", Status: importer.StatusFailed, Err: errors.New("boom")},
		},
		Interrupted: []string{"d.md"},
	}

	out := renderSummary(report, "import-errors.json")
	assert.Contains(t, out, "'Docs'")
	assert.Contains(t, out, "1 OK")
	assert.Contains(t, out, "1 skipped")
	assert.Contains(t, out, "1 failed")
	assert.Contains(t, out, "Databases created: 2")
	assert.Contains(t, out, "1 files not attempted")
	assert.Contains(t, out, "import-errors.json")
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	o := newProgressObserver(true, newTestLogger(&buf), nil)

	o.RunStarted(1)
	o.FileStarted("a.md", 7)
	o.FileDone(importer.FileOutcome{File: "a.md", Status: importer.StatusOK, Stage: importer.StageDone})
	o.Wait()

	assert.Contains(t, buf.String(), "(1/1) a.md")
}

func TestShortVersion(t *testing.T) {
	defer func(v, r string, d bool) { Version, Revision, DirtyBuild = v, r, d }(Version, Revision, DirtyBuild)

	Version, Revision, DirtyBuild = "(devel)", "unknown", false
	assert.Equal(t, "devel", shortVersion())

	Version, Revision, DirtyBuild = "v1.2.0", "0123456789abcdef", true
	assert.Equal(t, "v1.2.0-rev-0123456789ab-dirty", shortVersion())
}

func newTestLogger(w io.Writer) *log.Logger {
	return log.New(w)
}
