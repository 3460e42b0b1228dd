package plugins

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/notion-import/importer"
)

func TestRegistryNames(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"devops", "docusaurus", "html-tables"}, r.Names())
	assert.NotEmpty(t, r.Describe("docusaurus"))
	assert.Empty(t, r.Describe("nope"))
}

func TestRegistryLoad(t *testing.T) {
	opts := Options{UserCachePath: filepath.Join(t.TempDir(), "users.json")}

	chain, warnings := Default().Load("docusaurus, devops,docusaurus", opts)
	assert.Empty(t, warnings)
	assert.Equal(t, "docusaurus,devops", chain.String())

	chain, warnings = Default().Load("none", opts)
	assert.Empty(t, warnings)
	assert.Empty(t, chain.Plugins())

	chain, warnings = Default().Load("", opts)
	assert.Empty(t, warnings)
	assert.Empty(t, chain.Plugins())
}

func TestRegistryLoadWarnings(t *testing.T) {
	r := Default()
	r.Register("broken", "always fails", func(Options) (importer.Plugin, error) {
		return nil, errors.New("missing credentials")
	})

	chain, warnings := r.Load("html-tables,bogus,broken", Options{})
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0].Error(), "unknown plugin 'bogus'")
	assert.Contains(t, warnings[1].Error(), "missing credentials")
	assert.Equal(t, "html-tables", chain.String())
}

func TestDevOpsNeedsBlobURL(t *testing.T) {
	_, warnings := Default().Load("devops", Options{
		UserCachePath:    filepath.Join(t.TempDir(), "users.json"),
		AzureBlobAccount: "wikiimages",
	})
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Error(), "blob URL")
}
