package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] [query]...",
	Short: "Search the catalog",
	Long: `Search the catalog by title. Without a query, lists popular movies.

Examples:
  moviecat search "The Matrix"
  moviecat search --cursor 1 "Star Wars"
  moviecat search --policy offline Alien`,
	RunE: runSearchCmd,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().Int("cursor", 0, "Page cursor (0 is the first page)")
	searchCmd.Flags().String("policy", "", "Freshness policy: cache-first, network-first, cache-only")
}

func runSearchCmd(cmd *cobra.Command, args []string) error {
	q := strings.Join(args, " ")
	cursor, _ := cmd.Flags().GetInt("cursor")
	policy, _ := cmd.Flags().GetString("policy")

	client := NewClient(serverURL)
	page, err := client.ListMovies(q, cursor, policy)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		printJSON(page)
		return nil
	}
	printPage(stdout, q, page)
	return nil
}

func printPage(w io.Writer, q string, page *ListMoviesResponse) {
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No movies found")
		return
	}

	if q == "" {
		fmt.Fprintf(w, "Popular movies (%s total, %s):\n\n", humanize.Comma(int64(page.Total)), describeFreshness(page.Freshness))
	} else {
		fmt.Fprintf(w, "Found %s movies for %q (%s):\n\n", humanize.Comma(int64(page.Total)), q, describeFreshness(page.Freshness))
	}
	fmt.Fprintf(w, " %9s │ %-40s │ %4s │ %6s\n", "ID", "TITLE", "YEAR", "RATING")
	fmt.Fprintln(w, "───────────┼──────────────────────────────────────────┼──────┼────────")
	for _, m := range page.Items {
		fmt.Fprintf(w, " %9d │ %-40s │ %4s │ %6s\n",
			m.ID, truncate(m.Title, 40), formatYear(m.Year), formatRating(m.Rating))
	}
	if page.HasMore {
		fmt.Fprintf(w, "\nMore results: --cursor %d\n", page.Cursor)
	}
}
