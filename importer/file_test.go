package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/notion-import/markdown"
	"github.com/toothbrush/notion-import/notion"
)

var root = Target{PageID: "root", Title: "Root"}

func newTestImporter(t *testing.T, files map[string]string, cfg Config) (*Importer, *fakeService, *recordingObserver) {
	t.Helper()
	svc := &fakeService{}
	obs := newRecordingObserver()
	cfg.Service = svc
	cfg.Observer = obs
	cfg.BasePath = writeFiles(t, files)
	if cfg.Converter == nil {
		cfg.Converter = paragraphConverter{}
	}
	return New(cfg), svc, obs
}

func TestImportFileCreatesPage(t *testing.T) {
	im, svc, obs := newTestImporter(t, map[string]string{
		"guides/gettingStarted.md": "hello\nworld\n",
	}, Config{})

	outcome := im.ImportFile(context.Background(), root, "guides/gettingStarted.md")
	require.NoError(t, outcome.Err)
	assert.Equal(t, StatusOK, outcome.Status)
	assert.Equal(t, StageDone, outcome.Stage)

	folders := svc.folders()
	require.Len(t, folders, 1)
	assert.Equal(t, "Guides", folders[0].Title)
	assert.Equal(t, "root", folders[0].ParentID)

	docs := svc.documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "Getting started", docs[0].Title)
	assert.Equal(t, "page-1", docs[0].ParentID)
	assert.Len(t, docs[0].Children, 2)
	assert.Equal(t, "page-2", outcome.PageID)

	// one step for the folder, then every file stage
	assert.Equal(t, 8, obs.expected["guides/gettingStarted.md"])
	assert.Equal(t, 8, obs.steps["guides/gettingStarted.md"])
	require.Len(t, obs.outcomes, 1)
}

func TestFolderPagesAreReusedBySegment(t *testing.T) {
	files := map[string]string{
		"docs/a.md":       "a",
		"docs/b.md":       "b",
		"other/docs/c.md": "c",
	}
	im, svc, _ := newTestImporter(t, files, Config{})

	report := im.Run(context.Background(), root, []string{"docs/a.md", "docs/b.md", "other/docs/c.md"})
	assert.Equal(t, 3, report.Count(StatusOK))

	folders := svc.folders()
	require.Len(t, folders, 2)
	assert.Equal(t, "Docs", folders[0].Title)
	assert.Equal(t, "Other", folders[1].Title)

	// c.md lands in the first "docs" folder, not one under "other"
	docs := svc.documents()
	require.Len(t, docs, 3)
	assert.Equal(t, docs[0].ParentID, docs[2].ParentID)
}

func TestFolderPagesByPath(t *testing.T) {
	files := map[string]string{
		"docs/a.md":       "a",
		"other/docs/c.md": "c",
	}
	im, svc, _ := newTestImporter(t, files, Config{FolderCache: CacheByPath})

	report := im.Run(context.Background(), root, []string{"docs/a.md", "other/docs/c.md"})
	assert.Equal(t, 2, report.Count(StatusOK))

	folders := svc.folders()
	require.Len(t, folders, 3)
	assert.Equal(t, []string{"Docs", "Other", "Docs"}, []string{folders[0].Title, folders[1].Title, folders[2].Title})
	assert.Equal(t, "root", folders[1].ParentID)
	assert.Equal(t, "page-3", folders[2].ParentID)
	assert.Equal(t, 3, im.Folders.Len())
}

func TestFailedFolderPoisonsSubtree(t *testing.T) {
	files := map[string]string{
		"broken/a.md": "a",
		"broken/b.md": "b",
	}
	im, svc, _ := newTestImporter(t, files, Config{})
	svc.failPage = func(p notion.NewPage) error {
		if p.Icon == FolderIcon {
			return errors.New("forbidden")
		}
		return nil
	}

	report := im.Run(context.Background(), root, []string{"broken/a.md", "broken/b.md"})
	assert.Equal(t, 2, report.Count(StatusOK))

	docs := svc.documents()
	require.Len(t, docs, 2)
	assert.Equal(t, "", docs[0].ParentID)
	assert.Equal(t, "", docs[1].ParentID)
	assert.Equal(t, 1, im.Folders.Len())
}

func TestEmptyFileIsSkipped(t *testing.T) {
	im, svc, _ := newTestImporter(t, map[string]string{"empty.md": ""}, Config{})

	outcome := im.ImportFile(context.Background(), root, "empty.md")
	assert.Equal(t, StatusSkipped, outcome.Status)
	assert.NoError(t, outcome.Err)
	assert.Empty(t, svc.pages)
}

func TestMissingFileFails(t *testing.T) {
	im, svc, _ := newTestImporter(t, map[string]string{}, Config{})

	outcome := im.ImportFile(context.Background(), root, "nope.md")
	assert.Equal(t, StatusFailed, outcome.Status)
	stage, ok := outcome.FailedAt()
	require.True(t, ok)
	assert.Equal(t, StageTextLoaded, stage)
	assert.Contains(t, outcome.Message(), "couldn't read file")
	assert.Empty(t, svc.pages)
}

func TestPageCreationFailure(t *testing.T) {
	im, svc, _ := newTestImporter(t, map[string]string{"a.md": "a"}, Config{})
	svc.failPage = func(notion.NewPage) error {
		return &notion.Error{Status: 400, Code: "validation_error", Message: "bad"}
	}

	outcome := im.ImportFile(context.Background(), root, "a.md")
	assert.Equal(t, StatusFailed, outcome.Status)
	stage, _ := outcome.FailedAt()
	assert.Equal(t, StagePageCreated, stage)

	var apiErr *notion.Error
	require.ErrorAs(t, outcome.Err, &apiErr)
	assert.Equal(t, "validation_error", apiErr.Code)
}

func TestIncompletePageFailsFile(t *testing.T) {
	doc := "| A |\n|---|\n| 1 |\n"
	im, svc, _ := newTestImporter(t, map[string]string{"a.md": doc}, Config{
		Converter: markdown.NewConverter(markdown.Options{}),
	})
	svc.failAppend = func(notion.NewPage) error {
		return errors.New("append failed")
	}

	outcome := im.ImportFile(context.Background(), root, "a.md")
	assert.Equal(t, StatusFailed, outcome.Status)
	assert.NotEmpty(t, outcome.PageID)
	stage, _ := outcome.FailedAt()
	assert.Equal(t, StagePageCreated, stage)
	assert.Contains(t, outcome.Message(), "append failed")
	assert.Empty(t, svc.databases)
}

func TestTableRoundTrip(t *testing.T) {
	doc := "# Inventory\n\n| Name | Description |\n|------|-------------|\n| A | x |\n| B | y |\n"
	im, svc, obs := newTestImporter(t, map[string]string{"inventory.md": doc}, Config{
		Converter: markdown.NewConverter(markdown.Options{}),
	})

	outcome := im.ImportFile(context.Background(), root, "inventory.md")
	require.NoError(t, outcome.Err)
	assert.Equal(t, 1, outcome.Tables)

	require.Len(t, svc.databases, 1)
	db := svc.databases[0]
	assert.Equal(t, "Inventory - Database 1", db.Title)
	assert.Equal(t, outcome.PageID, db.ParentID)
	assert.Equal(t, []notion.Column{
		{Name: "Name", Kind: notion.TitleColumn},
		{Name: "Description", Kind: notion.TextColumn},
	}, db.Columns)

	require.Len(t, svc.records, 2)
	assert.Equal(t, "A", svc.records[0].Cells[0].Value)
	assert.Equal(t, "x", svc.records[0].Cells[1].Value)
	assert.Equal(t, "B", svc.records[1].Cells[0].Value)
	assert.Equal(t, "y", svc.records[1].Cells[1].Value)
	assert.Equal(t, 2, obs.records)

	docs := svc.documents()
	require.Len(t, docs, 1)
	children := docs[0].Children
	require.Len(t, children, 2)
	assert.Equal(t, notion.BlockHeading1, children[0].Type)
	require.NotNil(t, children[1].Paragraph)
	assert.Contains(t, notion.Plain(children[1].Paragraph.RichText), "Database 1")
}

func TestTablesKeepDocumentOrder(t *testing.T) {
	conv := converterFunc(func(string) ([]notion.Block, error) {
		return []notion.Block{
			paragraph("intro"),
			tableBlock([]string{"First"}, []string{"1"}),
			paragraph("middle"),
			tableBlock([]string{"Second"}, []string{"2"}, []string{"3"}),
		}, nil
	})
	im, svc, _ := newTestImporter(t, map[string]string{"two.md": "x"}, Config{Converter: conv})

	outcome := im.ImportFile(context.Background(), root, "two.md")
	require.NoError(t, outcome.Err)
	assert.Equal(t, 2, outcome.Tables)

	children := svc.documents()[0].Children
	require.Len(t, children, 4)
	assert.Contains(t, notion.Plain(children[1].Paragraph.RichText), "Database 1")
	assert.Contains(t, notion.Plain(children[3].Paragraph.RichText), "Database 2")

	require.Len(t, svc.databases, 2)
	assert.Equal(t, "First", svc.databases[0].Columns[0].Name)
	assert.Equal(t, "Second", svc.databases[1].Columns[0].Name)
	assert.Len(t, svc.records, 3)
}

func TestReverseRowOrder(t *testing.T) {
	conv := converterFunc(func(string) ([]notion.Block, error) {
		return []notion.Block{tableBlock([]string{"N"}, []string{"1"}, []string{"2"}, []string{"3"})}, nil
	})
	im, svc, _ := newTestImporter(t, map[string]string{"rows.md": "x"}, Config{Converter: conv, RowOrder: RowsReverse})

	outcome := im.ImportFile(context.Background(), root, "rows.md")
	require.NoError(t, outcome.Err)

	values := []string{}
	for _, r := range svc.records {
		values = append(values, r.Cells[0].Value)
	}
	assert.Equal(t, []string{"3", "2", "1"}, values)
}

func TestRecordFailureAbortsFile(t *testing.T) {
	conv := converterFunc(func(string) ([]notion.Block, error) {
		return []notion.Block{
			tableBlock([]string{"N"}, []string{"1"}, []string{"2"}),
			tableBlock([]string{"M"}, []string{"3"}),
		}, nil
	})
	im, svc, _ := newTestImporter(t, map[string]string{"rows.md": "x"}, Config{Converter: conv})
	svc.failRecord = func(r notion.NewRecord) error {
		if r.Cells[0].Value == "2" {
			return errors.New("rate limited")
		}
		return nil
	}

	outcome := im.ImportFile(context.Background(), root, "rows.md")
	assert.Equal(t, StatusFailed, outcome.Status)
	stage, _ := outcome.FailedAt()
	assert.Equal(t, StageTablesMaterialized, stage)
	assert.NotEmpty(t, outcome.PageID)
	assert.Len(t, svc.records, 1)
	assert.Len(t, svc.databases, 1)
}

type converterFunc func(string) ([]notion.Block, error)

func (f converterFunc) Convert(text string) ([]notion.Block, error) { return f(text) }
