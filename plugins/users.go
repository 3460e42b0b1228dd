package plugins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// UserResolver turns an Azure DevOps user ID into a display name.
type UserResolver interface {
	DisplayName(ctx context.Context, id string) (string, error)
}

// AzureCLIResolver asks the az command line tool, which must be installed and logged in.
type AzureCLIResolver struct {
	// Defaults to "az".
	Command string
}

func (r AzureCLIResolver) DisplayName(ctx context.Context, id string) (string, error) {
	command := r.Command
	if command == "" {
		command = "az"
	}

	out, err := exec.CommandContext(ctx, command, "devops", "user", "show", "--user", id, "--query", "user").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("devops: az devops user show failed: %s: %w", strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("devops: couldn't run %s: %w", command, err)
	}

	var user struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.Unmarshal(out, &user); err != nil {
		return "", fmt.Errorf("devops: couldn't parse user %s: %w", id, err)
	}
	if user.DisplayName == "" {
		return "", fmt.Errorf("devops: user %s has no display name", id)
	}
	return user.DisplayName, nil
}

// UserCache remembers resolved mentions across runs, in a flat JSON object of mention to
// replacement text.
type UserCache struct {
	path string

	mu      sync.Mutex
	entries map[string]string
	dirty   bool
}

// DefaultUserCachePath is where the cache lives unless configured otherwise.
func DefaultUserCachePath() (string, error) {
	p, err := xdg.CacheFile(filepath.Join("notion-import", "devops-users.json"))
	if err != nil {
		return "", fmt.Errorf("devops: couldn't determine cache path: %w", err)
	}
	return p, nil
}

// LoadUserCache reads the cache at path.  A missing file is an empty cache.
func LoadUserCache(path string) (*UserCache, error) {
	c := &UserCache{path: path, entries: map[string]string{}}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't read user cache %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &c.entries); err != nil {
		return nil, fmt.Errorf("devops: couldn't parse user cache %s: %w", path, err)
	}
	if c.entries == nil {
		c.entries = map[string]string{}
	}
	return c, nil
}

func (c *UserCache) Get(mention string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[mention]
	return v, ok
}

func (c *UserCache) Put(mention string, replacement string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[mention] = replacement
	c.dirty = true
}

func (c *UserCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save writes the cache back, if anything was added since it was loaded or last saved.
func (c *UserCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	out, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("devops: couldn't marshal user cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("devops: couldn't create %s: %w", filepath.Dir(c.path), err)
	}
	if err := os.WriteFile(c.path, out, 0o644); err != nil {
		return fmt.Errorf("devops: couldn't write user cache %s: %w", c.path, err)
	}
	c.dirty = false
	return nil
}
