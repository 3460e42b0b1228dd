// Package markdown turns Markdown text into Notion blocks.
//
// Tables and raw HTML have no block equivalent we can upload directly.  They come out as blocks
// with Object == notion.ObjectUnsupported (of type table and html respectively) so that the caller
// can decide what to do with them.
package markdown

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/toothbrush/notion-import/notion"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

type Options struct {
	// StrictImageURLs drops images whose destination isn't an absolute http(s) URL.  When false,
	// such images are kept as-is so a post-parse hook can relocate them.
	StrictImageURLs bool
}

type Converter struct {
	engine goldmark.Markdown
	opts   Options
}

func NewConverter(opts Options) *Converter {
	return &Converter{
		engine: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
		),
		opts: opts,
	}
}

// Convert parses text and returns the top-level blocks in document order.
func (c *Converter) Convert(markdown string) ([]notion.Block, error) {
	source := []byte(markdown)
	doc := c.engine.Parser().Parse(text.NewReader(source))

	w := walker{source: source, opts: c.opts}
	blocks, err := w.blocks(doc, true)
	if err != nil {
		return nil, fmt.Errorf("markdown: couldn't convert document: %w", err)
	}
	return blocks, nil
}

type walker struct {
	source []byte
	opts   Options
}

// blocks converts every child of parent.  Unsupported blocks are only emitted at the top level;
// nested ones can't be extracted later and would be rejected by the API.
func (w *walker) blocks(parent ast.Node, topLevel bool) ([]notion.Block, error) {
	out := []notion.Block{}
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		converted, err := w.block(n)
		if err != nil {
			return nil, err
		}
		for _, b := range converted {
			if b.Unsupported() && !topLevel {
				continue
			}
			out = append(out, b)
		}
	}
	return out, nil
}

func (w *walker) block(n ast.Node) ([]notion.Block, error) {
	switch node := n.(type) {
	case *ast.Heading:
		return []notion.Block{heading(node.Level, w.inlines(node, notion.Annotations{}))}, nil

	case *ast.Paragraph, *ast.TextBlock:
		return w.paragraph(node), nil

	case *ast.List:
		return w.list(node)

	case *ast.Blockquote:
		return []notion.Block{{
			Object: notion.ObjectBlock,
			Type:   notion.BlockQuote,
			Quote:  &notion.TextBlock{RichText: w.quoteText(node)},
		}}, nil

	case *ast.FencedCodeBlock:
		return []notion.Block{codeBlock(w.lines(node), language(string(node.Language(w.source))))}, nil

	case *ast.CodeBlock:
		return []notion.Block{codeBlock(w.lines(node), language(""))}, nil

	case *ast.ThematicBreak:
		return []notion.Block{{
			Object:  notion.ObjectBlock,
			Type:    notion.BlockDivider,
			Divider: &struct{}{},
		}}, nil

	case *east.Table:
		return []notion.Block{w.table(node)}, nil

	case *ast.HTMLBlock:
		return []notion.Block{{
			Object: notion.ObjectUnsupported,
			Type:   notion.BlockHTML,
			HTML:   w.lines(node),
		}}, nil

	default:
		// Unknown containers: flatten their content rather than lose it.
		if n.HasChildren() && n.Type() == ast.TypeBlock {
			return w.blocks(n, false)
		}
		return nil, nil
	}
}

func heading(level int, runs []notion.RichText) notion.Block {
	payload := &notion.TextBlock{RichText: runs}
	switch level {
	case 1:
		return notion.Block{Object: notion.ObjectBlock, Type: notion.BlockHeading1, Heading1: payload}
	case 2:
		return notion.Block{Object: notion.ObjectBlock, Type: notion.BlockHeading2, Heading2: payload}
	default:
		return notion.Block{Object: notion.ObjectBlock, Type: notion.BlockHeading3, Heading3: payload}
	}
}

func paragraphBlock(runs []notion.RichText) notion.Block {
	return notion.Block{
		Object:    notion.ObjectBlock,
		Type:      notion.BlockParagraph,
		Paragraph: &notion.TextBlock{RichText: runs},
	}
}

// paragraph hoists any images out into their own blocks, since Notion has no inline images.
func (w *walker) paragraph(n ast.Node) []notion.Block {
	out := []notion.Block{}
	var pending []ast.Node

	flush := func() {
		runs := []notion.RichText{}
		for _, c := range pending {
			runs = append(runs, w.inline(c, notion.Annotations{})...)
		}
		pending = nil
		runs = merge(runs)
		if strings.TrimSpace(notion.Plain(runs)) != "" {
			out = append(out, paragraphBlock(runs))
		}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		img, ok := c.(*ast.Image)
		if !ok {
			pending = append(pending, c)
			continue
		}
		flush()
		if b, ok := w.image(img); ok {
			out = append(out, b)
		}
	}
	flush()

	return out
}

func (w *walker) image(img *ast.Image) (notion.Block, bool) {
	dest := string(img.Destination)
	if w.opts.StrictImageURLs {
		u, err := url.Parse(dest)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return notion.Block{}, false
		}
	}
	return notion.Block{
		Object: notion.ObjectBlock,
		Type:   notion.BlockImage,
		Image: &notion.ImageBlock{
			Type:     "external",
			External: &notion.ExternalFile{URL: dest},
		},
	}, true
}

func (w *walker) list(l *ast.List) ([]notion.Block, error) {
	out := []notion.Block{}
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		var runs []notion.RichText
		var checkbox *east.TaskCheckBox
		children := []notion.Block{}

		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			// The first textual child is the item's own text, the rest become nested children.
			if runs == nil {
				if _, ok := c.(*ast.TextBlock); ok {
					checkbox = taskCheckBox(c)
					runs = w.inlines(c, notion.Annotations{})
					continue
				}
				if _, ok := c.(*ast.Paragraph); ok {
					checkbox = taskCheckBox(c)
					runs = w.inlines(c, notion.Annotations{})
					continue
				}
			}
			nested, err := w.block(c)
			if err != nil {
				return nil, err
			}
			for _, b := range nested {
				if !b.Unsupported() {
					children = append(children, b)
				}
			}
		}
		if runs == nil {
			runs = []notion.RichText{}
		}

		switch {
		case checkbox != nil:
			out = append(out, notion.Block{
				Object: notion.ObjectBlock,
				Type:   notion.BlockToDo,
				ToDo: &notion.ToDoBlock{
					RichText: runs,
					Checked:  checkbox.IsChecked,
					Children: children,
				},
			})
		case l.IsOrdered():
			out = append(out, notion.Block{
				Object:           notion.ObjectBlock,
				Type:             notion.BlockNumberedListItem,
				NumberedListItem: &notion.TextBlock{RichText: runs, Children: children},
			})
		default:
			out = append(out, notion.Block{
				Object:           notion.ObjectBlock,
				Type:             notion.BlockBulletedListItem,
				BulletedListItem: &notion.TextBlock{RichText: runs, Children: children},
			})
		}
	}
	return out, nil
}

func taskCheckBox(n ast.Node) *east.TaskCheckBox {
	if cb, ok := n.FirstChild().(*east.TaskCheckBox); ok {
		return cb
	}
	return nil
}

func (w *walker) quoteText(q *ast.Blockquote) []notion.RichText {
	runs := []notion.RichText{}
	for c := q.FirstChild(); c != nil; c = c.NextSibling() {
		if len(runs) > 0 {
			runs = append(runs, notion.NewText("\n"))
		}
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			runs = append(runs, w.inlines(c, notion.Annotations{})...)
		default:
			runs = append(runs, notion.NewText(w.plain(c)))
		}
	}
	return runs
}

func codeBlock(content string, lang string) notion.Block {
	return notion.Block{
		Object: notion.ObjectBlock,
		Type:   notion.BlockCode,
		Code: &notion.CodeBlock{
			RichText: notion.NewTexts(strings.TrimSuffix(content, "\n")),
			Language: lang,
		},
	}
}

func (w *walker) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(w.source))
	}
	return buf.String()
}

// table keeps every row, header included, as a table_row child.
func (w *walker) table(t *east.Table) notion.Block {
	rows := []notion.Block{}
	width := 0
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		cells := [][]notion.RichText{}
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, w.inlines(c, notion.Annotations{}))
		}
		width = max(width, len(cells))
		rows = append(rows, notion.Block{
			Object:   notion.ObjectBlock,
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
			Children:        rows,
		},
	}
}
