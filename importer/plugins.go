package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/toothbrush/notion-import/notion"
)

// Plugin is anything that can sit in the processing chain.  What it does is decided by which of
// PreParser and PostParser it also implements.
type Plugin interface {
	Name() string
}

// PreParser rewrites a file's text before it is converted.
type PreParser interface {
	Plugin
	PreParse(ctx context.Context, text string, hc *HookContext) (string, error)
}

// PostParser rewrites the converted blocks before tables are extracted and the page is created.
type PostParser interface {
	Plugin
	PostParse(ctx context.Context, blocks []notion.Block, hc *HookContext) ([]notion.Block, error)
}

// HookContext is what a hook knows about the file it's working on.
type HookContext struct {
	// File path relative to BasePath, slash separated.
	File     string
	BasePath string
	Service  Service
	Logger   *log.Logger
}

type Capabilities uint8

const (
	HookPreParse Capabilities = 1 << iota
	HookPostParse

	HookNone Capabilities = 0
	HookBoth              = HookPreParse | HookPostParse
)

func (c Capabilities) String() string {
	switch c {
	case HookNone:
		return "none"
	case HookPreParse:
		return "pre-parse"
	case HookPostParse:
		return "post-parse"
	default:
		return "pre-parse+post-parse"
	}
}

func CapabilitiesOf(p Plugin) Capabilities {
	c := HookNone
	if _, ok := p.(PreParser); ok {
		c |= HookPreParse
	}
	if _, ok := p.(PostParser); ok {
		c |= HookPostParse
	}
	return c
}

// Chain runs plugin hooks in registration order, each hook consuming the previous one's output.
// A nil *Chain runs no hooks.
type Chain struct {
	plugins []Plugin
	pre     []PreParser
	post    []PostParser
}

func NewChain(plugins ...Plugin) *Chain {
	c := &Chain{}
	for _, p := range plugins {
		c.plugins = append(c.plugins, p)
		caps := CapabilitiesOf(p)
		if caps&HookPreParse != 0 {
			c.pre = append(c.pre, p.(PreParser))
		}
		if caps&HookPostParse != 0 {
			c.post = append(c.post, p.(PostParser))
		}
	}
	return c
}

func (c *Chain) Plugins() []Plugin {
	if c == nil {
		return nil
	}
	return c.plugins
}

func (c *Chain) String() string {
	if c == nil || len(c.plugins) == 0 {
		return "none"
	}
	names := make([]string, 0, len(c.plugins))
	for _, p := range c.plugins {
		names = append(names, p.Name())
	}
	return strings.Join(names, ",")
}

func (c *Chain) PreParse(ctx context.Context, text string, hc *HookContext) (string, error) {
	if c == nil {
		return text, nil
	}
	for _, p := range c.pre {
		out, err := p.PreParse(ctx, text, hc)
		if err != nil {
			return "", fmt.Errorf("plugin %s: pre-parse: %w", p.Name(), err)
		}
		text = out
	}
	return text, nil
}

func (c *Chain) PostParse(ctx context.Context, blocks []notion.Block, hc *HookContext) ([]notion.Block, error) {
	if c == nil {
		return blocks, nil
	}
	for _, p := range c.post {
		out, err := p.PostParse(ctx, blocks, hc)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: post-parse: %w", p.Name(), err)
		}
		blocks = out
	}
	return blocks, nil
}
