package plugins

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/toothbrush/notion-import/importer"
)

const HTMLTablesName = "html-tables"

var htmlTable = regexp.MustCompile(`(?is)<table\b.*?</table\s*>`)

// HTMLTables rewrites tables written as raw HTML into Markdown tables, so that they're imported as
// databases instead of being dropped.
type HTMLTables struct {
	converter *md.Converter
}

func NewHTMLTables(Options) (importer.Plugin, error) {
	converter := md.NewConverter("", true, nil)
	// Github flavoured Markdown knows about tables 👍
	converter.Use(mdplugin.GitHubFlavored())
	return &HTMLTables{converter: converter}, nil
}

func (h *HTMLTables) Name() string { return HTMLTablesName }

func (h *HTMLTables) PreParse(_ context.Context, text string, _ *importer.HookContext) (string, error) {
	var convErr error
	out := htmlTable.ReplaceAllStringFunc(text, func(table string) string {
		if convErr != nil {
			return table
		}
		markdown, err := h.converter.ConvertString(table)
		if err != nil {
			convErr = err
			return table
		}
		// blank lines either side, or goldmark reads it as part of a paragraph
		return "\n\n" + strings.TrimSpace(markdown) + "\n\n"
	})
	if convErr != nil {
		return "", fmt.Errorf("html-tables: failed to convert to Markdown: %w", convErr)
	}
	return out, nil
}
