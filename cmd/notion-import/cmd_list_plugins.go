/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toothbrush/notion-import/plugins"
)

var listPluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Print the plugins --plugins accepts",
	Args:  cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		r := plugins.Default()
		fmt.Printf("plugins:\n")
		for _, name := range r.Names() {
			fmt.Printf("  - %s: %s\n", name, r.Describe(name))
		}
	},
}

func init() {
	listCmd.AddCommand(listPluginsCmd)
}
