package plugins

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/toothbrush/notion-import/importer"
	"github.com/toothbrush/notion-import/notion"
	"golang.org/x/sync/errgroup"
)

const DevOpsName = "devops"

// How many mentions are looked up at once.
const maxLookups = 4

var (
	// DevOps writes headings without the space after the hashes.
	devopsHeading = regexp.MustCompile(`(?m)(^|[ ])(#{1,5})([^#\s])`)
	// @<04FF2889-BB6F-64C0-BF9F-F7A5570712C6>
	devopsMention = regexp.MustCompile(`@<([a-zA-Z0-9-]*)>`)
)

// Remote images are only kept if they have one of these extensions.
var allowedImageExtensions = []string{
	".png",
	".jpg",
	".jpeg",
	".gif",
	".tif",
	".tiff",
	".bmp",
	".svg",
	".heic",
}

// DevOps cleans up Azure DevOps wiki exports.
type DevOps struct {
	Resolver   UserResolver
	Users      *UserCache
	Uploader   ImageUploader // nil drops local images
	ImagesPath string
}

func NewDevOps(opts Options) (importer.Plugin, error) {
	cachePath := opts.UserCachePath
	if cachePath == "" {
		p, err := DefaultUserCachePath()
		if err != nil {
			return nil, err
		}
		cachePath = p
	}
	users, err := LoadUserCache(cachePath)
	if err != nil {
		return nil, err
	}
	if opts.Logger != nil {
		opts.Logger.Debug("loaded devops users from cache", "users", users.Len(), "path", cachePath)
	}

	var uploader ImageUploader
	switch {
	case opts.S3.Configured():
		s3, err := NewS3Uploader(opts.S3)
		if err != nil {
			return nil, err
		}
		uploader = s3
	case opts.AzureBlobAccount != "":
		if opts.AzureBlobURL == "" {
			return nil, fmt.Errorf("devops: an Azure blob account needs a blob URL to serve images from")
		}
		uploader = AzureCLIUploader{Account: opts.AzureBlobAccount, BaseURL: opts.AzureBlobURL}
	}

	return &DevOps{
		Resolver:   AzureCLIResolver{},
		Users:      users,
		Uploader:   uploader,
		ImagesPath: opts.ImagesPath,
	}, nil
}

func (d *DevOps) Name() string { return DevOpsName }

// PreParse fixes headings, expands tabs, and replaces user mentions with display names.  A mention
// that can't be resolved is left alone.
func (d *DevOps) PreParse(ctx context.Context, text string, hc *importer.HookContext) (string, error) {
	text = devopsHeading.ReplaceAllString(text, "$1$2 $3")
	text = strings.ReplaceAll(text, "\t", "  ")

	mentions := devopsMention.FindAllString(text, -1)
	if len(mentions) == 0 {
		return text, nil
	}
	slices.Sort(mentions)
	mentions = slices.Compact(mentions)

	resolved := make([]string, len(mentions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLookups)
	for i, mention := range mentions {
		i, mention := i, mention
		g.Go(func() error {
			resolved[i] = d.lookup(gctx, mention, hc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	if err := d.Users.Save(); err != nil {
		hc.Logger.Warn("couldn't save devops user cache", "err", err)
	}

	pairs := make([]string, 0, 2*len(mentions))
	for i, mention := range mentions {
		pairs = append(pairs, mention, resolved[i])
	}
	return strings.NewReplacer(pairs...).Replace(text), nil
}

func (d *DevOps) lookup(ctx context.Context, mention string, hc *importer.HookContext) string {
	if name, ok := d.Users.Get(mention); ok {
		return name
	}

	id := devopsMention.FindStringSubmatch(mention)[1]
	name, err := d.Resolver.DisplayName(ctx, id)
	if err != nil {
		hc.Logger.Warn("couldn't look up devops user", "user", id, "err", err)
		return mention
	}

	replacement := "@" + name
	d.Users.Put(mention, replacement)
	hc.Logger.Debug("resolved devops user", "user", id, "name", name)
	return replacement
}

// PostParse deals with top level images: remote ones are kept if they look like images, local
// ones are uploaded and re-pointed, or dropped if that isn't possible.
func (d *DevOps) PostParse(ctx context.Context, blocks []notion.Block, hc *importer.HookContext) ([]notion.Block, error) {
	out := make([]notion.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Type != notion.BlockImage || b.Image == nil || b.Image.External == nil {
			out = append(out, b)
			continue
		}
		if img, ok := d.relocate(ctx, *b.Image, hc); ok {
			b.Image = &img
			out = append(out, b)
		}
	}
	return out, nil
}

func (d *DevOps) relocate(ctx context.Context, img notion.ImageBlock, hc *importer.HookContext) (notion.ImageBlock, bool) {
	raw := img.External.URL
	if decoded, err := url.PathUnescape(raw); err == nil {
		raw = decoded
	}

	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		if !slices.Contains(allowedImageExtensions, strings.ToLower(path.Ext(u.Path))) {
			hc.Logger.Debug("dropping remote image with unknown extension", "url", raw)
			return img, false
		}
		return img, true
	}

	local := filepath.Join(d.imagesPath(hc), filepath.FromSlash(raw))
	if _, err := os.Stat(local); err != nil {
		hc.Logger.Warn("couldn't find image, check the images path?", "image", local)
		return img, false
	}
	if d.Uploader == nil {
		hc.Logger.Warn("no image storage configured, dropping local image", "image", local)
		return img, false
	}

	hc.Logger.Debug("uploading image", "image", local)
	publicURL, err := d.Uploader.Upload(ctx, local)
	if err != nil {
		hc.Logger.Warn("couldn't upload image", "image", local, "err", err)
		return img, false
	}
	hc.Logger.Debug("image uploaded", "url", publicURL)

	return notion.ImageBlock{
		Type:     "external",
		External: &notion.ExternalFile{URL: publicURL},
	}, true
}

// imagesPath is where relative image references are looked up.
func (d *DevOps) imagesPath(hc *importer.HookContext) string {
	if d.ImagesPath != "" {
		return d.ImagesPath
	}
	return filepath.Join(hc.BasePath, filepath.FromSlash(path.Dir(hc.File)))
}
