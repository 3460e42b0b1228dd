/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List Notion workspace users or available import plugins",
	Long: `List things that are useful while preparing an import.

"list users" needs a Notion token and shows the people the integration can see, which helps
when filling the devops plugin's mention cache.  "list plugins" works offline and shows the
Markdown preprocessing plugins accepted by --plugins.`,
}

func init() {
	rootCmd.AddCommand(listCmd)
}
