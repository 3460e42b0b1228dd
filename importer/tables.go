package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/toothbrush/notion-import/notion"
)

// ExtractedTable is a Markdown table pulled out of a document, to be recreated as a database.
type ExtractedTable struct {
	// 1-based position among the tables of the same document.
	Ordinal int
	Header  []string
	// Rows may be shorter (or longer) than Header.
	Rows [][]string
}

type RowOrder int

const (
	RowsForward RowOrder = iota
	// RowsReverse inserts the last row first.  Notion lists database entries most recent first by
	// default, so this makes the table read top to bottom as it did in Markdown.
	RowsReverse
)

func (o RowOrder) String() string {
	switch o {
	case RowsReverse:
		return "reverse"
	default:
		return "forward"
	}
}

func ParseRowOrder(s string) (RowOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "forward":
		return RowsForward, nil
	case "reverse":
		return RowsReverse, nil
	}
	return RowsForward, fmt.Errorf("importer: unknown row order '%s', expected forward or reverse", s)
}

// ExtractTables removes unsupported blocks from a document.  Tables are returned, in order, and
// a placeholder paragraph takes their place; any other unsupported block is dropped.
func ExtractTables(blocks []notion.Block) ([]notion.Block, []ExtractedTable) {
	kept := make([]notion.Block, 0, len(blocks))
	tables := []ExtractedTable{}

	for _, b := range blocks {
		if !b.Unsupported() {
			kept = append(kept, b)
			continue
		}
		if b.Type != notion.BlockTable {
			continue
		}
		ordinal := len(tables) + 1
		tables = append(tables, newExtractedTable(ordinal, b))
		kept = append(kept, TablePlaceholder(ordinal))
	}

	return kept, tables
}

// TablePlaceholder is the paragraph left where table number ordinal used to be.
func TablePlaceholder(ordinal int) notion.Block {
	return notion.Block{
		Object: notion.ObjectBlock,
		Type:   notion.BlockParagraph,
		Paragraph: &notion.TextBlock{
			RichText: []notion.RichText{{
				Type: "text",
				Text: &notion.Text{
					Content: fmt.Sprintf("Table moved - see linked Database %d", ordinal),
				},
				Annotations: &notion.Annotations{
					Italic: true,
					Color:  "orange",
				},
			}},
		},
	}
}

func newExtractedTable(ordinal int, b notion.Block) ExtractedTable {
	rows := [][]string{}
	if b.Table != nil {
		for _, r := range b.Table.Children {
			if r.TableRow == nil {
				continue
			}
			cells := make([]string, 0, len(r.TableRow.Cells))
			for _, c := range r.TableRow.Cells {
				cells = append(cells, strings.TrimSpace(notion.Plain(c)))
			}
			rows = append(rows, cells)
		}
	}

	t := ExtractedTable{Ordinal: ordinal}
	if len(rows) > 0 {
		t.Header = rows[0]
		t.Rows = rows[1:]
	}
	return t
}

// Columns builds the database schema: the first column holds the title, the rest are text.
// Blank header cells are named "Header <n>" and repeated names get a " (<k>)" suffix, since
// database properties are keyed by name.
func (t ExtractedTable) Columns() []notion.Column {
	header := t.Header
	if len(header) == 0 {
		header = []string{""}
	}

	seen := map[string]int{}
	columns := make([]notion.Column, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Header %d", i+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s (%d)", name, n)
		}

		kind := notion.TextColumn
		if i == 0 {
			kind = notion.TitleColumn
		}
		columns = append(columns, notion.Column{Name: name, Kind: kind})
	}
	return columns
}

// DatabaseTitle names the database created from t under the document titled parentTitle.
func (t ExtractedTable) DatabaseTitle(parentTitle string) string {
	return fmt.Sprintf("%s - Database %d", parentTitle, t.Ordinal)
}

// orderedRows returns the rows in insertion order.
func (t ExtractedTable) orderedRows(order RowOrder) [][]string {
	rows := make([][]string, len(t.Rows))
	copy(rows, t.Rows)
	if order == RowsReverse {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows
}

func recordCells(columns []notion.Column, row []string) []notion.Cell {
	cells := make([]notion.Cell, 0, len(columns))
	for i, c := range columns {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		cells = append(cells, notion.Cell{Column: c, Value: value})
	}
	return cells
}

// materializeTable creates the database for t and fills it, one record at a time.  The first
// failure is returned as-is and the remaining rows are not attempted.
func (im *Importer) materializeTable(ctx context.Context, file string, t ExtractedTable, parentID string, parentTitle string) error {
	columns := t.Columns()
	title := t.DatabaseTitle(parentTitle)

	im.Logger.Debug("adding table", "file", file, "title", title, "rows", len(t.Rows))
	im.Observer.TableStarted(file, t.Ordinal, len(t.Rows))

	callCtx, cancel := im.callContext(ctx)
	db, err := im.Service.CreateDatabase(callCtx, notion.NewDatabase{
		ParentID: parentID,
		Title:    title,
		Columns:  columns,
	})
	cancel()
	if err != nil {
		return fmt.Errorf("importer: couldn't create database %d: %w", t.Ordinal, err)
	}

	for i, row := range t.orderedRows(im.RowOrder) {
		callCtx, cancel := im.callContext(ctx)
		_, err := im.Service.CreateRecord(callCtx, notion.NewRecord{
			DatabaseID: db.ID,
			Cells:      recordCells(columns, row),
		})
		cancel()
		if err != nil {
			return fmt.Errorf("importer: couldn't create record %d of database %d: %w", i+1, t.Ordinal, err)
		}
		im.Observer.RecordCreated(file, t.Ordinal)
	}

	return nil
}
