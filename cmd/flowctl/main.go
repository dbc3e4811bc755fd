// Command flowctl inspects serialized flowcanvas graphs without a server.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
)

var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flowctl",
		Short:         "Inspect flowcanvas graph files",
		Long:          brand.Sprint("flowctl") + " validates, summarises and renders serialized flowcanvas graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		validateCmd(),
		statsCmd(),
		renderCmd(),
	)
	return root
}

// readGraph loads and validates one graph file.
func readGraph(path string) (*graph.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := graph.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		bad.Fprintf(os.Stderr, "flowctl: %v\n", err)
		os.Exit(1)
	}
}
