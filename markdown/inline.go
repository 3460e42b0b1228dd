package markdown

import (
	"strings"

	"github.com/toothbrush/notion-import/notion"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

func (w *walker) inlines(parent ast.Node, ann notion.Annotations) []notion.RichText {
	runs := []notion.RichText{}
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		runs = append(runs, w.inline(c, ann)...)
	}
	return merge(runs)
}

func (w *walker) inline(n ast.Node, ann notion.Annotations) []notion.RichText {
	switch node := n.(type) {
	case *ast.Text:
		content := string(node.Segment.Value(w.source))
		if node.SoftLineBreak() {
			content += " "
		}
		if node.HardLineBreak() {
			content += "\n"
		}
		return []notion.RichText{styled(content, ann, "")}

	case *ast.String:
		return []notion.RichText{styled(string(node.Value), ann, "")}

	case *ast.Emphasis:
		inner := ann
		if node.Level >= 2 {
			inner.Bold = true
		} else {
			inner.Italic = true
		}
		return w.inlines(node, inner)

	case *east.Strikethrough:
		inner := ann
		inner.Strikethrough = true
		return w.inlines(node, inner)

	case *ast.CodeSpan:
		inner := ann
		inner.Code = true
		return []notion.RichText{styled(w.plain(node), inner, "")}

	case *ast.Link:
		runs := w.inlines(node, ann)
		return withLink(runs, string(node.Destination))

	case *ast.AutoLink:
		dest := string(node.URL(w.source))
		if node.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(dest, "mailto:") {
			dest = "mailto:" + dest
		}
		return []notion.RichText{styled(string(node.Label(w.source)), ann, dest)}

	case *ast.Image:
		// Only reached for images nested in headings, links or table cells: keep the alt text.
		return w.inlines(node, ann)

	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			b.Write(seg.Value(w.source))
		}
		return []notion.RichText{styled(b.String(), ann, "")}

	case *east.TaskCheckBox:
		return nil

	default:
		return w.inlines(n, ann)
	}
}

// plain flattens n to its text content with no styling.
func (w *walker) plain(n ast.Node) string {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 && !n.HasChildren() {
		return w.lines(n)
	}
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(w.source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString(" ")
			}
		case *ast.String:
			b.Write(node.Value)
		default:
			b.WriteString(w.plain(c))
		}
	}
	return b.String()
}

func styled(content string, ann notion.Annotations, link string) notion.RichText {
	rt := notion.NewText(content)
	if ann != (notion.Annotations{}) {
		a := ann
		rt.Annotations = &a
	}
	if link != "" {
		rt.Text.Link = &notion.Link{URL: link}
	}
	return rt
}

func withLink(runs []notion.RichText, dest string) []notion.RichText {
	if dest == "" {
		return runs
	}
	for i := range runs {
		if runs[i].Text != nil {
			runs[i].Text.Link = &notion.Link{URL: dest}
		}
	}
	return runs
}

// merge joins adjacent runs that share styling and link, and splits overlong ones, so that the
// API's per-run length limit holds.
func merge(runs []notion.RichText) []notion.RichText {
	out := []notion.RichText{}
	for _, r := range runs {
		if r.Text == nil {
			out = append(out, r)
			continue
		}
		if n := len(out); n > 0 && sameStyle(out[n-1], r) {
			out[n-1].Text.Content += r.Text.Content
			continue
		}
		out = append(out, r)
	}

	split := make([]notion.RichText, 0, len(out))
	for _, r := range out {
		if r.Text == nil {
			split = append(split, r)
			continue
		}
		for _, part := range notion.NewTexts(r.Text.Content) {
			part.Annotations = r.Annotations
			part.Text.Link = r.Text.Link
			split = append(split, part)
		}
	}
	return split
}

func sameStyle(a, b notion.RichText) bool {
	if a.Text == nil || b.Text == nil {
		return false
	}
	var annA, annB notion.Annotations
	if a.Annotations != nil {
		annA = *a.Annotations
	}
	if b.Annotations != nil {
		annB = *b.Annotations
	}
	if annA != annB {
		return false
	}
	switch {
	case a.Text.Link == nil && b.Text.Link == nil:
		return true
	case a.Text.Link != nil && b.Text.Link != nil:
		return a.Text.Link.URL == b.Text.Link.URL
	default:
		return false
	}
}
