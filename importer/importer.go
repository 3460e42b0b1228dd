// Package importer turns a set of Markdown files into a tree of Notion pages.
//
// Files are imported one at a time, in the order given.  Directories become folder pages (created
// once and remembered for the rest of the run), each file becomes a document page, and every
// Markdown table in a document is moved into an inline database under that document.
package importer

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/toothbrush/notion-import/notion"
)

// Service is the subset of the Notion API the importer needs.
type Service interface {
	SearchPages(ctx context.Context, query string) ([]notion.PageSummary, error)
	CreatePage(ctx context.Context, p notion.NewPage) (*notion.Page, error)
	CreateDatabase(ctx context.Context, d notion.NewDatabase) (*notion.Database, error)
	CreateRecord(ctx context.Context, r notion.NewRecord) (*notion.Page, error)
}

// Converter turns Markdown text into blocks.
type Converter interface {
	Convert(markdown string) ([]notion.Block, error)
}

// Target is the page everything gets imported under.
type Target struct {
	PageID string
	Title  string
}

type Config struct {
	Service   Service
	Converter Converter
	Plugins   *Chain

	// Directory file paths are relative to.
	BasePath string

	RowOrder    RowOrder
	FolderCache FolderCacheMode

	// Per-call timeout for the remote service, zero for none.
	Timeout time.Duration

	Logger   *log.Logger
	Observer Observer
}

type Importer struct {
	Service   Service
	Converter Converter
	Plugins   *Chain
	BasePath  string
	RowOrder  RowOrder
	Timeout   time.Duration

	Folders  *FolderCache
	Logger   *log.Logger
	Observer Observer
}

func New(cfg Config) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	observer := cfg.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	return &Importer{
		Service:   cfg.Service,
		Converter: cfg.Converter,
		Plugins:   cfg.Plugins,
		BasePath:  cfg.BasePath,
		RowOrder:  cfg.RowOrder,
		Timeout:   cfg.Timeout,
		Folders:   NewFolderCache(cfg.FolderCache, logger),
		Logger:    logger,
		Observer:  observer,
	}
}

// callContext bounds a single remote call.
func (im *Importer) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if im.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, im.Timeout)
}
