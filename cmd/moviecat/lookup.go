package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <title>...",
	Short: "Find the closest match for a title",
	Long: `Search for a title and show the best matching movie.

Examples:
  moviecat lookup "Star Wars Episode IV"
  moviecat lookup Amelie`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookupCmd,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().String("policy", "", "Freshness policy: cache-first, network-first, cache-only")
}

func runLookupCmd(cmd *cobra.Command, args []string) error {
	title := strings.Join(args, " ")
	policy, _ := cmd.Flags().GetString("policy")

	client := NewClient(serverURL)
	resp, err := client.Lookup(title, policy)
	if IsCode(err, "NO_MATCH") {
		if jsonOutput {
			return err
		}
		fmt.Fprintf(stdout, "No match for %q\n", title)
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	fmt.Fprintf(stdout, "Matched %q (%s confidence, score %.2f)\n\n", resp.Match.Title, resp.Match.Confidence, resp.Match.Score)
	printMovieDetail(stdout, resp.Movie)
	fmt.Fprintf(stdout, "\n(%s)\n", describeFreshness(resp.Freshness))
	return nil
}
