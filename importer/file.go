package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/toothbrush/notion-import/notion"
)

// ImportFile imports one file, given relative to BasePath with slash separators, under target.
//
// Nothing here panics or returns early on error: whatever goes wrong ends up in the outcome, and
// the file is never retried.
func (im *Importer) ImportFile(ctx context.Context, target Target, file string) FileOutcome {
	segments, name := splitPath(file)

	im.Observer.FileStarted(file, len(segments)+len(fileStages))
	outcome := im.importFile(ctx, target, file, segments, name)
	im.Observer.FileDone(outcome)

	switch outcome.Status {
	case StatusFailed:
		im.Logger.Debug("import failed", "file", file, "err", outcome.Err)
	case StatusSkipped:
		im.Logger.Debug("skipped empty file", "file", file)
	default:
		im.Logger.Debug("imported", "file", file, "page", outcome.PageID, "tables", outcome.Tables)
	}

	return outcome
}

func (im *Importer) importFile(ctx context.Context, target Target, file string, segments []string, name string) FileOutcome {
	outcome := FileOutcome{File: file, Stage: StagePendingAncestors}
	step := func(s Stage) {
		outcome.Stage = s
		im.Observer.StepCompleted(file, s)
	}
	fail := func(s Stage, err error) FileOutcome {
		outcome.Status = StatusFailed
		outcome.Err = &StageError{Stage: s, Err: err}
		return outcome
	}

	// Folders first, so that even empty files leave their directories behind.
	parentID := im.Folders.Resolve(ctx, segments, target.PageID, im.createFolder, func(string) {
		im.Observer.StepCompleted(file, StagePendingAncestors)
	})

	im.Logger.Debug("processing markdown file", "file", file)
	raw, err := os.ReadFile(filepath.Join(im.BasePath, filepath.FromSlash(file)))
	if err != nil {
		return fail(StageTextLoaded, err)
	}
	if len(raw) == 0 {
		outcome.Stage = StageTextLoaded
		outcome.Status = StatusSkipped
		return outcome
	}
	step(StageTextLoaded)

	hc := &HookContext{
		File:     file,
		BasePath: im.BasePath,
		Service:  im.Service,
		Logger:   im.Logger.With("file", file),
	}

	text, err := im.Plugins.PreParse(ctx, string(raw), hc)
	if err != nil {
		return fail(StagePreParsed, err)
	}
	step(StagePreParsed)

	blocks, err := im.Converter.Convert(text)
	if err != nil {
		return fail(StageConverted, err)
	}
	step(StageConverted)

	blocks, err = im.Plugins.PostParse(ctx, blocks, hc)
	if err != nil {
		return fail(StagePostParsed, err)
	}
	step(StagePostParsed)

	kept, tables := ExtractTables(blocks)
	outcome.Tables = len(tables)
	step(StageTablesExtracted)

	title := DocumentTitle(name)
	callCtx, cancel := im.callContext(ctx)
	page, err := im.Service.CreatePage(callCtx, notion.NewPage{
		ParentID: parentID,
		Title:    title,
		Children: kept,
	})
	cancel()
	if page != nil {
		outcome.PageID = page.ID
	}
	if err != nil {
		return fail(StagePageCreated, err)
	}
	step(StagePageCreated)

	for _, t := range tables {
		if err := im.materializeTable(ctx, file, t, page.ID, title); err != nil {
			return fail(StageTablesMaterialized, err)
		}
	}
	step(StageTablesMaterialized)

	outcome.Stage = StageDone
	outcome.Status = StatusOK
	return outcome
}

func (im *Importer) createFolder(ctx context.Context, parentID string, segment string) (string, error) {
	callCtx, cancel := im.callContext(ctx)
	defer cancel()

	page, err := im.Service.CreatePage(callCtx, notion.NewPage{
		ParentID: parentID,
		Icon:     FolderIcon,
		Title:    FolderTitle(segment),
	})
	if err != nil {
		return "", fmt.Errorf("importer: couldn't create folder page '%s': %w", segment, err)
	}
	return page.ID, nil
}
