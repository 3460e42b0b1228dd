/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  versionRun,
	Args:  cobra.ExactArgs(0),
}

var versionVerbose bool

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "also show build details")
}

var (
	// Version is the module version when built with "go install url/tool@version", and
	// "(devel)" otherwise.  Can be overridden with -ldflags.
	Version = "unknown"
	// Revision is taken from the vcs.revision tag.
	Revision = "unknown"
	// LastCommit is taken from the vcs.time tag.
	LastCommit time.Time
	// DirtyBuild is taken from the vcs.modified tag.
	DirtyBuild = true
)

func versionRun(cmd *cobra.Command, args []string) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fmt.Errorf("notion-import: could not read build info")
	}
	if Version == "unknown" {
		Version = info.Main.Version
	}
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			Revision = kv.Value
		case "vcs.time":
			LastCommit, _ = time.Parse(time.RFC3339, kv.Value)
		case "vcs.modified":
			DirtyBuild = kv.Value == "true"
		}
	}

	fmt.Printf("notion-import version %s\n", shortVersion())
	if versionVerbose {
		fmt.Printf("  go: %s\n", info.GoVersion)
		fmt.Printf("  module: %s\n", info.Main.Path)
		if !LastCommit.IsZero() {
			fmt.Printf("  last commit: %s\n", LastCommit.Format(time.DateTime))
		}
	}
	return nil
}

func shortVersion() string {
	parts := []string{}
	if Version != "unknown" && Version != "(devel)" && Version != "" {
		parts = append(parts, Version)
	}
	if Revision != "unknown" && Revision != "" {
		rev := Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		parts = append(parts, "rev", rev)
		if DirtyBuild {
			parts = append(parts, "dirty")
		}
	}
	if len(parts) == 0 {
		return "devel"
	}
	return strings.Join(parts, "-")
}
