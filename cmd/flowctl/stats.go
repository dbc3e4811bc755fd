package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Count nodes, connections and reroute points per module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readGraph(args[0])
			if err != nil {
				return err
			}
			var rows [][]string
			for _, st := range s.Stats() {
				rows = append(rows, []string{
					st.Module,
					strconv.Itoa(st.Nodes),
					strconv.Itoa(st.Connections),
					strconv.Itoa(st.Points),
				})
			}
			table(cmd.OutOrStdout(), []string{"Module", "Nodes", "Connections", "Points"}, rows)
			return nil
		},
	}
}

// table prints an aligned table with a dimmed header.
func table(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}
	line := func(cells []string) string {
		var b strings.Builder
		b.WriteString("  ")
		for i, c := range cells {
			fmt.Fprintf(&b, "%-*s  ", widths[i], c)
		}
		return strings.TrimRight(b.String(), " ")
	}
	subtle.Fprintln(w, line(headers))
	seps := make([]string, len(widths))
	for i, n := range widths {
		seps[i] = strings.Repeat("─", n)
	}
	subtle.Fprintln(w, line(seps))
	for _, row := range rows {
		fmt.Fprintln(w, line(row))
	}
}
