package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Daemon and cache status",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Drop expired cache entries now",
	Args:  cobra.NoArgs,
	RunE:  runSweepCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(sweepCmd)
}

func runStatusCmd(_ *cobra.Command, _ []string) error {
	client := NewClient(serverURL)
	st, err := client.Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}
	if jsonOutput {
		printJSON(st)
		return nil
	}
	printStatus(stdout, serverURL, st)
	return nil
}

func printStatus(w io.Writer, server string, st *StatusResponse) {
	c := st.Cache
	fmt.Fprintf(w, "Server:   %s (%s, up %s)\n", server, st.Status, st.Uptime)
	fmt.Fprintf(w, "Policy:   %s\n", st.Policy)
	fmt.Fprintf(w, "Cached:   %s pages, %s movies\n", humanize.Comma(int64(c.Pages)), humanize.Comma(int64(c.Details)))

	lookups := c.Hits + c.Misses
	ratio := "-"
	if lookups > 0 {
		ratio = fmt.Sprintf("%.0f%%", float64(c.Hits)/float64(lookups)*100)
	}
	fmt.Fprintf(w, "Hits:     %s of %s (%s)\n", humanize.Comma(int64(c.Hits)), humanize.Comma(int64(lookups)), ratio)
	fmt.Fprintf(w, "Fetches:  %s (%s coalesced)\n", humanize.Comma(int64(c.Fetches)), humanize.Comma(int64(c.Coalesced)))
	if c.StaleServed > 0 {
		fmt.Fprintf(w, "Stale:    %s served after upstream failures\n", humanize.Comma(int64(c.StaleServed)))
	}
}

func runSweepCmd(_ *cobra.Command, _ []string) error {
	client := NewClient(serverURL)
	res, err := client.Sweep()
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}
	if jsonOutput {
		printJSON(res)
		return nil
	}
	fmt.Fprintf(stdout, "Removed %d in-memory and %d persistent entries\n", res.Memory, res.Persistent)
	return nil
}
