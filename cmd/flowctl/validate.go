package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check that graph files are well formed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				s, err := readGraph(path)
				if err != nil {
					failed++
					bad.Fprintf(out, "  ✗ %v\n", err)
					continue
				}
				n, _ := s.CountNodes("")
				good.Fprintf(out, "  ✓ %s", path)
				subtle.Fprintf(out, " (%d modules, %d nodes)\n", len(s.ListModules()), n)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}
