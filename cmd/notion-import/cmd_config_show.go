/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Note, you can only talk about persistent flags here.  Command-specific ones won't be
		// visible.
		fmt.Printf("Dump current config state:\n\n")

		fmt.Printf("  Config file: %s\n", ConfigActual)
		fmt.Printf("  Debug: %v\n", Debug)
		fmt.Printf("  AuthTokenCmd: %v\n", AuthTokenCmd)
		fmt.Printf("  NotionURL: %s\n", NotionURL)
		fmt.Printf("  RequestsPerSecond: %v\n", RequestsPerSecond)
		fmt.Printf("  RequestTimeout: %s\n", RequestTimeout)
		fmt.Println()

		parsed, err := yaml.Marshal(redacted(ParsedConfig))
		if err != nil {
			return fmt.Errorf("notion-import: couldn't render config: %w", err)
		}
		fmt.Printf("  Parsed YAML:\n%s\n", parsed)
		return nil
	},
}

func redacted(c YamlConfig) YamlConfig {
	if c.S3SecretKey != "" {
		c.S3SecretKey = "********"
	}
	return c
}

func init() {
	configCmd.AddCommand(showCmd)
}
