package notion

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Notion refuses more than this many blocks in one create or append call.
const MaxChildrenPerRequest = 100

// Notion refuses longer text content in a single rich text run.
const MaxTextLength = 2000

// CreatePage creates a page under p.ParentID.  Children beyond the first 100 are appended in
// further requests, in order.
func (api *API) CreatePage(ctx context.Context, p NewPage) (*Page, error) {
	ep, err := api.createPageEndpoint()
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't get create page endpoint: %w", err)
	}

	first, rest := splitChildren(p.Children)
	req := createPageRequest{
		Parent: parent{
			Type:   "page_id",
			PageID: p.ParentID,
		},
		Properties: map[string]any{
			"title": titleProperty(p.Title),
		},
		Children: first,
	}
	if p.Icon != "" {
		req.Icon = &icon{Type: "emoji", Emoji: p.Icon}
	}

	var page Page
	if err := api.post(ctx, ep, req, &page); err != nil {
		return nil, fmt.Errorf("notion: couldn't create page '%s': %w", p.Title, err)
	}

	for len(rest) > 0 {
		var chunk []Block
		chunk, rest = splitChildren(rest)
		if err := api.AppendChildren(ctx, page.ID, chunk); err != nil {
			return &page, fmt.Errorf("notion: page '%s' created but content is incomplete: %w", p.Title, err)
		}
	}

	return &page, nil
}

// AppendChildren adds blocks to the end of an existing page or block.
func (api *API) AppendChildren(ctx context.Context, blockID string, children []Block) error {
	ep, err := api.appendChildrenEndpoint(blockID)
	if err != nil {
		return fmt.Errorf("notion: couldn't get append endpoint: %w", err)
	}

	var res blockList
	if err := api.patch(ctx, ep, appendChildrenRequest{Children: children}, &res); err != nil {
		return fmt.Errorf("notion: couldn't append %d blocks: %w", len(children), err)
	}
	return nil
}

// CreateDatabase creates an inline database under d.ParentID with one property per column.
func (api *API) CreateDatabase(ctx context.Context, d NewDatabase) (*Database, error) {
	ep, err := api.createDatabaseEndpoint()
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't get create database endpoint: %w", err)
	}

	properties := make(map[string]any, len(d.Columns))
	for _, c := range d.Columns {
		properties[c.Name] = map[string]any{
			c.Kind.String(): struct{}{},
		}
	}

	req := createDatabaseRequest{
		Parent: parent{
			Type:   "page_id",
			PageID: d.ParentID,
		},
		Title:      NewTexts(d.Title),
		IsInline:   true,
		Properties: properties,
	}

	var db Database
	if err := api.post(ctx, ep, req, &db); err != nil {
		return nil, fmt.Errorf("notion: couldn't create database '%s': %w", d.Title, err)
	}
	return &db, nil
}

// CreateRecord adds one row to a database.
func (api *API) CreateRecord(ctx context.Context, r NewRecord) (*Page, error) {
	ep, err := api.createPageEndpoint()
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't get create page endpoint: %w", err)
	}

	properties := make(map[string]any, len(r.Cells))
	for _, c := range r.Cells {
		switch c.Column.Kind {
		case TitleColumn:
			properties[c.Column.Name] = titleProperty(c.Value)
		default:
			properties[c.Column.Name] = textProperty(c.Value)
		}
	}

	req := createPageRequest{
		Parent: parent{
			Type:       "database_id",
			DatabaseID: r.DatabaseID,
		},
		Properties: properties,
	}

	var page Page
	if err := api.post(ctx, ep, req, &page); err != nil {
		return nil, fmt.Errorf("notion: couldn't create record: %w", err)
	}
	return &page, nil
}

func splitChildren(blocks []Block) ([]Block, []Block) {
	if len(blocks) <= MaxChildrenPerRequest {
		return blocks, nil
	}
	return blocks[:MaxChildrenPerRequest], blocks[MaxChildrenPerRequest:]
}

// NewTexts splits content into as many unstyled runs as the length limit requires.  Empty content
// still yields one (empty) run.
func NewTexts(content string) []RichText {
	runs := []RichText{}
	for utf8.RuneCountInString(content) > MaxTextLength {
		cut := byteOffset(content, MaxTextLength)
		runs = append(runs, NewText(content[:cut]))
		content = content[cut:]
	}
	return append(runs, NewText(content))
}

func byteOffset(s string, runes int) int {
	n := 0
	for i := range s {
		if n == runes {
			return i
		}
		n++
	}
	return len(s)
}
