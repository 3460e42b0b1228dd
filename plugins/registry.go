// Package plugins holds the hooks that can be chained into an import, and the registry they're
// picked from by name.
package plugins

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/toothbrush/notion-import/importer"
	"golang.org/x/exp/maps"
)

// Options configures every plugin; each one reads only what it cares about.
type Options struct {
	// Where local images referenced by documents live.  Defaults to the document's directory.
	ImagesPath string

	AzureBlobURL     string
	AzureBlobAccount string

	S3 S3Options

	// File the devops plugin keeps resolved user names in.  Defaults to a file under the user's
	// cache directory.
	UserCachePath string

	Logger *log.Logger
}

// Constructor builds a plugin for one run.
type Constructor func(opts Options) (importer.Plugin, error)

type entry struct {
	description string
	construct   Constructor
}

// Registry maps plugin names to constructors.
type Registry struct {
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]entry{}}
}

// Default knows every plugin in this package.
func Default() *Registry {
	r := NewRegistry()
	r.Register(DevOpsName, "Azure DevOps wiki exports: headings, user mentions, image upload", NewDevOps)
	r.Register(DocusaurusName, "Docusaurus docs: table separators, front matter removal", NewDocusaurus)
	r.Register(HTMLTablesName, "turns raw HTML tables into Markdown so they become databases", NewHTMLTables)
	return r
}

func (r *Registry) Register(name string, description string, c Constructor) {
	r.entries[name] = entry{description: description, construct: c}
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := maps.Keys(r.entries)
	slices.Sort(names)
	return names
}

func (r *Registry) Describe(name string) string {
	return r.entries[name].description
}

// Load builds a chain from a comma separated list of names, in the order given.  "none", or an
// empty list, gives an empty chain.  Unknown names and plugins that fail to build are left out
// and reported as warnings.
func (r *Registry) Load(list string, opts Options) (*importer.Chain, []error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	loaded := []importer.Plugin{}
	warnings := []error{}
	seen := map[string]bool{}

	for _, name := range strings.Split(list, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || name == "none" || seen[name] {
			continue
		}
		seen[name] = true

		e, ok := r.entries[name]
		if !ok {
			warnings = append(warnings, fmt.Errorf("plugins: unknown plugin '%s', expected one of %s", name, strings.Join(r.Names(), ", ")))
			continue
		}

		p, err := e.construct(opts)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("plugins: couldn't load plugin '%s': %w", name, err))
			continue
		}
		opts.Logger.Debug("loaded plugin", "name", name, "hooks", importer.CapabilitiesOf(p))
		loaded = append(loaded, p)
	}

	return importer.NewChain(loaded...), warnings
}
