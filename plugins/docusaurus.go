package plugins

import (
	"context"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/toothbrush/notion-import/importer"
	"gopkg.in/yaml.v3"
)

const DocusaurusName = "docusaurus"

// Docusaurus cleans up pages written for the Docusaurus site generator.
type Docusaurus struct{}

// Only YAML front matter, "---" delimited, is recognised.
var yamlMatter = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

func NewDocusaurus(Options) (importer.Plugin, error) {
	return Docusaurus{}, nil
}

func (Docusaurus) Name() string { return DocusaurusName }

// PreParse closes up "| --" table separators, which goldmark won't take as a table, and drops the
// front matter block.
func (Docusaurus) PreParse(_ context.Context, text string, hc *importer.HookContext) (string, error) {
	text = strings.ReplaceAll(text, "| --", "|--")

	matter := map[string]any{}
	body, err := frontmatter.Parse(strings.NewReader(text), &matter, yamlMatter)
	if err != nil {
		return "", fmt.Errorf("docusaurus: couldn't parse front matter: %w", err)
	}
	if len(matter) > 0 && hc != nil && hc.Logger != nil {
		hc.Logger.Debug("dropped front matter", "keys", len(matter))
	}

	return string(body), nil
}
