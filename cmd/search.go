package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rogersnm/frontdesk/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search clients and active documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := stores.Search(args[0])
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		grouped := map[string][]store.SearchResult{}
		for _, r := range results {
			grouped[r.Type] = append(grouped[r.Type], r)
		}

		for _, typ := range []string{"client", "document"} {
			items, ok := grouped[typ]
			if !ok {
				continue
			}
			fmt.Printf("\n%ss:\n", capitalize(typ))
			for _, item := range items {
				fmt.Printf("  %s  %s\n", item.ID, item.Title)
				if item.Snippet != "" {
					fmt.Printf("    %s\n", item.Snippet)
				}
			}
		}
		fmt.Println()
		return nil
	},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-32) + s[1:]
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
