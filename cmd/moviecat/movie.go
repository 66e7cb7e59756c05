package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var movieCmd = &cobra.Command{
	Use:   "movie <id>",
	Short: "Show a movie",
	Long: `Show the full record of a movie.

Examples:
  moviecat movie 301
  moviecat movie --policy network-first 301
  moviecat movie --forget 301`,
	Args: cobra.ExactArgs(1),
	RunE: runMovieCmd,
}

func init() {
	rootCmd.AddCommand(movieCmd)
	movieCmd.Flags().String("policy", "", "Freshness policy: cache-first, network-first, cache-only")
	movieCmd.Flags().Bool("forget", false, "Drop the movie from the daemon's caches")
}

func runMovieCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid movie ID: %s", args[0])
	}
	policy, _ := cmd.Flags().GetString("policy")
	forget, _ := cmd.Flags().GetBool("forget")

	client := NewClient(serverURL)
	if forget {
		if err := client.ForgetMovie(id); err != nil {
			return fmt.Errorf("forget failed: %w", err)
		}
		if !jsonOutput {
			fmt.Fprintf(stdout, "Dropped movie %d from cache\n", id)
		}
		return nil
	}

	resp, err := client.Movie(id, policy)
	if err != nil {
		return fmt.Errorf("movie %d: %w", id, err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	printMovieDetail(stdout, resp.Movie)
	fmt.Fprintf(stdout, "\n(%s)\n", describeFreshness(resp.Freshness))
	return nil
}
