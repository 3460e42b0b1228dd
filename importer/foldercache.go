package importer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

type FolderCacheMode int

const (
	// CacheBySegment keys folders by their bare name: docs/a/images and docs/b/images share a
	// single "images" page, whichever branch created it first.
	CacheBySegment FolderCacheMode = iota
	// CacheByPath keys folders by their full path from the import root.
	CacheByPath
)

func (m FolderCacheMode) String() string {
	switch m {
	case CacheByPath:
		return "path"
	default:
		return "segment"
	}
}

func ParseFolderCacheMode(s string) (FolderCacheMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "segment":
		return CacheBySegment, nil
	case "path":
		return CacheByPath, nil
	}
	return CacheBySegment, fmt.Errorf("importer: unknown folder cache mode '%s', expected segment or path", s)
}

// FolderCreator creates one folder page and returns its ID.
type FolderCreator func(ctx context.Context, parentID string, segment string) (string, error)

// FolderCache remembers the folder pages created during a run.
//
// A failed creation is remembered too, as an empty ID: everything below that folder is then
// created with an empty parent, and fails, for the rest of the run.
type FolderCache struct {
	Mode   FolderCacheMode
	Logger *log.Logger

	mu      sync.Mutex
	folders map[string]string
}

func NewFolderCache(mode FolderCacheMode, logger *log.Logger) *FolderCache {
	return &FolderCache{
		Mode:    mode,
		Logger:  logger,
		folders: make(map[string]string),
	}
}

func (c *FolderCache) key(segments []string, i int) string {
	if c.Mode == CacheByPath {
		return strings.Join(segments[:i+1], "/")
	}
	return segments[i]
}

// Resolve walks segments left to right, creating whatever folder pages don't exist yet, and
// returns the ID of the last one (rootID when segments is empty).  visited is called once per
// segment.
func (c *FolderCache) Resolve(ctx context.Context, segments []string, rootID string, create FolderCreator, visited func(segment string)) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	parentID := rootID
	for i, segment := range segments {
		key := c.key(segments, i)

		id, ok := c.folders[key]
		if !ok {
			c.Logger.Debug("creating folder page", "segment", segment, "key", key)
			created, err := create(ctx, parentID, segment)
			if err != nil {
				c.Logger.Warn("couldn't create folder page, files below it will fail", "segment", segment, "err", err)
				created = ""
			}
			c.folders[key] = created
			id = created
		}

		if visited != nil {
			visited(segment)
		}
		parentID = id
	}

	return parentID
}

// Len is the number of folders remembered, failed ones included.
func (c *FolderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.folders)
}
