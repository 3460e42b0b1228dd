package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/toothbrush/notion-import/notion"
)

type fakeService struct {
	mu     sync.Mutex
	nextID int

	pages     []notion.NewPage
	databases []notion.NewDatabase
	records   []notion.NewRecord

	results []notion.PageSummary

	failPage   func(p notion.NewPage) error
	failRecord func(r notion.NewRecord) error
	// Page is created but its remaining children are not appended.
	failAppend func(p notion.NewPage) error
}

func (s *fakeService) id(kind string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", kind, s.nextID)
}

func (s *fakeService) SearchPages(_ context.Context, query string) ([]notion.PageSummary, error) {
	return s.results, nil
}

func (s *fakeService) CreatePage(_ context.Context, p notion.NewPage) (*notion.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPage != nil {
		if err := s.failPage(p); err != nil {
			return nil, err
		}
	}
	s.pages = append(s.pages, p)
	page := &notion.Page{Object: "page", ID: s.id("page")}
	if s.failAppend != nil {
		if err := s.failAppend(p); err != nil {
			return page, err
		}
	}
	return page, nil
}

func (s *fakeService) CreateDatabase(_ context.Context, d notion.NewDatabase) (*notion.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.databases = append(s.databases, d)
	return &notion.Database{Object: "database", ID: s.id("db")}, nil
}

func (s *fakeService) CreateRecord(_ context.Context, r notion.NewRecord) (*notion.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRecord != nil {
		if err := s.failRecord(r); err != nil {
			return nil, err
		}
	}
	s.records = append(s.records, r)
	return &notion.Page{Object: "page", ID: s.id("record")}, nil
}

func (s *fakeService) folders() []notion.NewPage {
	out := []notion.NewPage{}
	for _, p := range s.pages {
		if p.Icon == FolderIcon {
			out = append(out, p)
		}
	}
	return out
}

func (s *fakeService) documents() []notion.NewPage {
	out := []notion.NewPage{}
	for _, p := range s.pages {
		if p.Icon != FolderIcon {
			out = append(out, p)
		}
	}
	return out
}

// paragraphConverter turns every non-empty line into a paragraph, failing on "boom".
type paragraphConverter struct{}

func (paragraphConverter) Convert(text string) ([]notion.Block, error) {
	if strings.Contains(text, "boom") {
		return nil, errors.New("unparseable")
	}
	blocks := []notion.Block{}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		blocks = append(blocks, paragraph(line))
	}
	return blocks, nil
}

func paragraph(s string) notion.Block {
	return notion.Block{
		Object:    notion.ObjectBlock,
		Type:      notion.BlockParagraph,
		Paragraph: &notion.TextBlock{RichText: []notion.RichText{notion.NewText(s)}},
	}
}

func tableBlock(rows ...[]string) notion.Block {
	children := []notion.Block{}
	width := 0
	for _, r := range rows {
		cells := [][]notion.RichText{}
		for _, c := range r {
			cells = append(cells, []notion.RichText{notion.NewText(c)})
		}
		width = max(width, len(r))
		children = append(children, notion.Block{
			Object:   notion.ObjectUnsupported,
			Type:     notion.BlockTableRow,
			TableRow: &notion.TableRow{Cells: cells},
		})
	}
	return notion.Block{
		Object: notion.ObjectUnsupported,
		Type:   notion.BlockTable,
		Table: &notion.TableBlock{
			TableWidth:      width,
			HasColumnHeader: true,
			Children:        children,
		},
	}
}

type recordingObserver struct {
	NopObserver
	expected map[string]int
	steps    map[string]int
	records  int
	outcomes []FileOutcome
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{expected: map[string]int{}, steps: map[string]int{}}
}

func (o *recordingObserver) FileStarted(file string, steps int) { o.expected[file] = steps }
func (o *recordingObserver) StepCompleted(file string, _ Stage) { o.steps[file]++ }
func (o *recordingObserver) RecordCreated(string, int) { o.records++ }
func (o *recordingObserver) FileDone(outcome FileOutcome) { o.outcomes = append(o.outcomes, outcome) }

// writeFiles lays out files (relative path → content) under a fresh directory.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}
