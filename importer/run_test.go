package importer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/notion-import/notion"
)

func TestRunIsolatesFailures(t *testing.T) {
	files := map[string]string{
		"1.md": "one",
		"2.md": "boom",
		"3.md": "three",
	}
	im, svc, obs := newTestImporter(t, files, Config{})

	report := im.Run(context.Background(), root, []string{"1.md", "2.md", "3.md"})
	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, StatusOK, report.Outcomes[0].Status)
	assert.Equal(t, StatusFailed, report.Outcomes[1].Status)
	assert.Equal(t, StatusOK, report.Outcomes[2].Status)
	assert.True(t, report.Failed())

	stage, ok := report.Outcomes[1].FailedAt()
	require.True(t, ok)
	assert.Equal(t, StageConverted, stage)

	assert.Len(t, svc.documents(), 2)
	assert.Len(t, obs.outcomes, 3)

	errs := report.ErrorReport()
	require.Len(t, errs.Errors, 1)
	assert.Equal(t, "2.md", errs.Errors[0].File)
	assert.Contains(t, errs.Errors[0].Message, "unparseable")
}

func TestRunStopsWhenCancelled(t *testing.T) {
	im, svc, _ := newTestImporter(t, map[string]string{"a.md": "a", "b.md": "b"}, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := im.Run(ctx, root, []string{"a.md", "b.md"})
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, []string{"a.md", "b.md"}, report.Interrupted)
	assert.Empty(t, svc.pages)
}

func TestWriteErrorReport(t *testing.T) {
	report := &Report{Outcomes: []FileOutcome{
		{File: "ok.md", Status: StatusOK},
		{File: "bad.md", Status: StatusFailed, Err: &StageError{Stage: StageConverted, Err: assert.AnError}},
	}}
	path := filepath.Join(t.TempDir(), "import-errors.json")

	require.NoError(t, WriteErrorReport(path, report))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string][]map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded["errors"], 1)
	assert.Equal(t, "bad.md", decoded["errors"][0]["file"])
	assert.Equal(t, "couldn't convert Markdown: "+assert.AnError.Error(), decoded["errors"][0]["message"])
}

type fakeSelector struct {
	offered []Choice
	pick    string
	ok      bool
}

func (s *fakeSelector) Select(_ context.Context, choices []Choice) (string, bool, error) {
	s.offered = choices
	return s.pick, s.ok, nil
}

func TestResolveTarget(t *testing.T) {
	ctx := context.Background()

	t.Run("no pages", func(t *testing.T) {
		im := New(Config{Service: &fakeService{}})
		_, _, err := im.ResolveTarget(ctx, "nothing", &fakeSelector{})
		assert.ErrorIs(t, err, ErrNoPagesFound)
	})

	t.Run("single page is picked", func(t *testing.T) {
		svc := &fakeService{results: []notion.PageSummary{{ID: "p1", Title: "Docs"}}}
		sel := &fakeSelector{}
		target, ok, err := New(Config{Service: svc}).ResolveTarget(ctx, "docs", sel)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, Target{PageID: "p1", Title: "Docs"}, target)
		assert.Nil(t, sel.offered)
	})

	t.Run("several pages ask the selector", func(t *testing.T) {
		svc := &fakeService{results: []notion.PageSummary{{ID: "p1", Title: "Docs"}, {ID: "p2", Title: "Wiki"}}}
		sel := &fakeSelector{pick: "p2", ok: true}
		target, ok, err := New(Config{Service: svc}).ResolveTarget(ctx, "", sel)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, Target{PageID: "p2", Title: "Wiki"}, target)
		assert.Equal(t, []Choice{{Label: "Docs", Value: "p1"}, {Label: "Wiki", Value: "p2"}}, sel.offered)
	})

	t.Run("aborted selection", func(t *testing.T) {
		svc := &fakeService{results: []notion.PageSummary{{ID: "p1"}, {ID: "p2"}}}
		_, ok, err := New(Config{Service: svc}).ResolveTarget(ctx, "", &fakeSelector{})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestTargetFromID(t *testing.T) {
	target, err := TargetFromID("7D7B3E5C-1B7A-4D2B-9F0E-0C6E3A1D2B4F")
	require.NoError(t, err)
	assert.Equal(t, "7d7b3e5c-1b7a-4d2b-9f0e-0c6e3a1d2b4f", target.PageID)

	target, err = TargetFromID("7d7b3e5c1b7a4d2b9f0e0c6e3a1d2b4f")
	require.NoError(t, err)
	assert.Equal(t, "7d7b3e5c-1b7a-4d2b-9f0e-0c6e3a1d2b4f", target.PageID)

	_, err = TargetFromID("not-a-page")
	assert.ErrorIs(t, err, ErrInvalidPageID)
}
