/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the notion-import configuration",
	Long: `Inspect the YAML configuration notion-import reads its defaults from.

Keys in the file mirror the long flag names (base-page, glob, plugins, s3-bucket, ...) and
only apply to flags not given on the command line.  The Notion token itself is never stored
there: set NOTION_TOKEN or point auth-token-cmd at a command that prints it.`,
	Example: `  notion-import config which
  notion-import config show --config ./wiki-import.yaml`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
