package plugins

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/notion-import/importer"
	"github.com/toothbrush/notion-import/notion"
)

type fakeResolver struct {
	mu    sync.Mutex
	calls []string
	names map[string]string
}

func (r *fakeResolver) DisplayName(_ context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, id)
	if name, ok := r.names[id]; ok {
		return name, nil
	}
	return "", errors.New("no such user")
}

type fakeUploader struct {
	uploaded []string
	fail     bool
}

func (u *fakeUploader) Upload(_ context.Context, localPath string) (string, error) {
	if u.fail {
		return "", errors.New("denied")
	}
	u.uploaded = append(u.uploaded, localPath)
	return "https://cdn.example.com/" + objectKey(localPath), nil
}

func hookContext(base string, file string) *importer.HookContext {
	return &importer.HookContext{File: file, BasePath: base, Logger: log.New(io.Discard)}
}

func newTestDevOps(t *testing.T, resolver UserResolver, uploader ImageUploader) (*DevOps, string) {
	t.Helper()
	cachePath := filepath.Join(t.TempDir(), "users.json")
	users, err := LoadUserCache(cachePath)
	require.NoError(t, err)
	return &DevOps{Resolver: resolver, Users: users, Uploader: uploader}, cachePath
}

func TestDevOpsHeadingsAndTabs(t *testing.T) {
	d, _ := newTestDevOps(t, &fakeResolver{}, nil)

	out, err := d.PreParse(context.Background(), "#Title\n##Sub\n###### too deep\n\tindented", hookContext("", "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n## Sub\n###### too deep\n  indented", out)
}

func TestDevOpsMentions(t *testing.T) {
	resolver := &fakeResolver{names: map[string]string{"04FF2889-BB6F": "Ada Lovelace"}}
	d, cachePath := newTestDevOps(t, resolver, nil)
	hc := hookContext("", "a.md")

	text := "ping @<04FF2889-BB6F> and @<04FF2889-BB6F>, cc @<DEADBEEF>"
	out, err := d.PreParse(context.Background(), text, hc)
	require.NoError(t, err)
	assert.Equal(t, "ping @Ada Lovelace and @Ada Lovelace, cc @<DEADBEEF>", out)
	assert.ElementsMatch(t, []string{"04FF2889-BB6F", "DEADBEEF"}, resolver.calls)

	// persisted, and served from the cache next time
	raw, err := os.ReadFile(cachePath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"@<04FF2889-BB6F>": "@Ada Lovelace"}`, string(raw))

	reloaded, err := LoadUserCache(cachePath)
	require.NoError(t, err)
	d.Users = reloaded
	resolver.calls = nil
	out, err = d.PreParse(context.Background(), "@<04FF2889-BB6F>", hc)
	require.NoError(t, err)
	assert.Equal(t, "@Ada Lovelace", out)
	assert.Empty(t, resolver.calls)
}

func image(u string) notion.Block {
	return notion.Block{
		Object: notion.ObjectBlock,
		Type:   notion.BlockImage,
		Image:  &notion.ImageBlock{Type: "external", External: &notion.ExternalFile{URL: u}},
	}
}

func TestDevOpsImages(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "wiki", ".attachments"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "wiki", ".attachments", "My Diagram.PNG"), []byte("png"), 0o644))

	uploader := &fakeUploader{}
	d, _ := newTestDevOps(t, &fakeResolver{}, uploader)
	para := notion.Block{Object: notion.ObjectBlock, Type: notion.BlockParagraph, Paragraph: &notion.TextBlock{}}

	blocks := []notion.Block{
		para,
		image("https://example.com/logo.png"),
		image("https://example.com/page.html"),
		image(".attachments/My%20Diagram.PNG"),
		image(".attachments/missing.png"),
	}
	out, err := d.PostParse(context.Background(), blocks, hookContext(base, "wiki/page.md"))
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, notion.BlockParagraph, out[0].Type)
	assert.Equal(t, "https://example.com/logo.png", out[1].Image.External.URL)
	assert.Equal(t, "https://cdn.example.com/my-diagram.png", out[2].Image.External.URL)
	assert.Equal(t, []string{filepath.Join(base, "wiki", ".attachments", "My Diagram.PNG")}, uploader.uploaded)

	// the input isn't touched
	assert.Equal(t, ".attachments/My%20Diagram.PNG", blocks[3].Image.External.URL)
}

func TestDevOpsImagesWithoutStorage(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "a.png"), []byte("png"), 0o644))

	d, _ := newTestDevOps(t, &fakeResolver{}, nil)
	out, err := d.PostParse(context.Background(), []notion.Block{image("a.png")}, hookContext(base, "page.md"))
	require.NoError(t, err)
	assert.Empty(t, out)

	d.Uploader = &fakeUploader{fail: true}
	out, err = d.PostParse(context.Background(), []notion.Block{image("a.png")}, hookContext(base, "page.md"))
	require.NoError(t, err)
	assert.Empty(t, out)

	d.Uploader = &fakeUploader{}
	d.ImagesPath = base
	out, err = d.PostParse(context.Background(), []notion.Block{image("a.png")}, hookContext("/elsewhere", "deep/page.md"))
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "my-diagram.png", objectKey("/tmp/My Diagram.PNG"))
	assert.Equal(t, "image.svg", objectKey("/tmp/.svg"))
	assert.Equal(t, "https://x.example/a/b%20c.png", joinURL("https://x.example/a", "b c.png"))
}
