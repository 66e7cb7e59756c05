package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var posterCmd = &cobra.Command{
	Use:   "poster <ref>",
	Short: "Resolve an image reference to a URL",
	Long: `Resolve a raw image reference to a canonical URL at a size tier.

Tiers: thumb, small, medium, large, original.

Examples:
  moviecat poster /kqjL17yufvn9OVLyXYpvtyrFfak.jpg
  moviecat poster --tier original //avatars.mds.yandex.net/get-kinopoisk-image/1/abc/orig`,
	Args: cobra.ExactArgs(1),
	RunE: runPosterCmd,
}

func init() {
	rootCmd.AddCommand(posterCmd)
	posterCmd.Flags().String("tier", "", "Size tier (default: daemon's configured tier)")
}

func runPosterCmd(cmd *cobra.Command, args []string) error {
	tier, _ := cmd.Flags().GetString("tier")

	client := NewClient(serverURL)
	resp, err := client.Image(args[0], tier)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}
	if jsonOutput {
		printJSON(resp)
		return nil
	}
	fmt.Fprintln(stdout, resp.URL)
	return nil
}
