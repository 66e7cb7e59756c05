package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var stdout io.Writer = os.Stdout

func printJSON(v any) {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// describeFreshness renders where a result came from, e.g.
// "cached 5 minutes ago" or "stale, fetched 3 days ago".
func describeFreshness(f Freshness) string {
	age := "at unknown time"
	if !f.FetchedAt.IsZero() {
		age = humanize.Time(f.FetchedAt)
	}
	switch {
	case f.Stale:
		return "stale, fetched " + age
	case f.FromCache:
		return "cached " + age
	default:
		return "fresh"
	}
}

func formatYear(y int) string {
	if y == 0 {
		return "----"
	}
	return fmt.Sprintf("%d", y)
}

func formatRating(r float64) string {
	if r == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", r)
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	d := time.Duration(minutes) * time.Minute
	h, m := int(d.Hours()), minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printMovieDetail(w io.Writer, m MovieDetailResponse) {
	fmt.Fprintf(w, "%s (%s)  #%d\n", m.Title, formatYear(m.Year), m.ID)
	fmt.Fprintf(w, "  Rating:  %s\n", formatRating(m.Rating))
	fmt.Fprintf(w, "  Runtime: %s\n", formatRuntime(m.RuntimeMinutes))
	if len(m.Genres) > 0 {
		fmt.Fprintf(w, "  Genres:  %s\n", strings.Join(m.Genres, ", "))
	}
	if m.PosterURL != "" {
		fmt.Fprintf(w, "  Poster:  %s\n", m.PosterURL)
	}
	if m.Description != "" {
		fmt.Fprintf(w, "\n  %s\n", m.Description)
	}
	if len(m.Cast) > 0 {
		fmt.Fprintln(w, "\n  Cast:")
		for _, p := range m.Cast {
			if p.Role != "" {
				fmt.Fprintf(w, "    %s as %s\n", p.Name, p.Role)
			} else {
				fmt.Fprintf(w, "    %s\n", p.Name)
			}
		}
	}
}
