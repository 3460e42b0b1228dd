/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var listUsersUsage = strings.TrimSpace(`
List the people and bots in the workspace your integration token belongs to.  Handy to check the
token works before importing anything.
`)

var listUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Print list of workspace users",
	Long:  listUsersUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), RequestTimeout)
		defer cancel()

		api, stop, err := notionAPI(false)
		if err != nil {
			return err
		}
		defer stop()

		Logger.Debug("listing users", "url", api.BaseURI)
		users, err := api.ListAllUsers(ctx)
		if err != nil {
			return fmt.Errorf("notion-import: couldn't list users: %w", err)
		}

		sort.Slice(users, func(i, j int) bool {
			return strings.ToLower(users[i].Name) < strings.ToLower(users[j].Name)
		})

		fmt.Printf("users:\n")
		for _, u := range users {
			if u.Person != nil && u.Person.Email != "" {
				fmt.Printf("  - %s <%s> (%s)\n", u.Name, u.Person.Email, u.ID)
			} else {
				fmt.Printf("  - %s [%s] (%s)\n", u.Name, u.Type, u.ID)
			}
		}

		return nil
	},
}

func init() {
	listCmd.AddCommand(listUsersCmd)
}
