package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/config"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/content"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/editor"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

func renderCmd() *cobra.Command {
	var (
		module  string
		cfgPath string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Write the scene markup of one module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readGraph(args[0])
			if err != nil {
				return err
			}

			opts := editor.DefaultOptions()
			reg := content.NewRegistry()
			if cfgPath != "" {
				l, err := config.NewLoader(cfgPath)
				if err != nil {
					return err
				}
				opts = l.Config().EditorOptions()
				l.Config().RegisterTemplates(reg)
			}
			quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
			ed := editor.New(opts, editor.WithLogger(quiet), editor.WithRegistry(reg))
			if err := ed.Start(); err != nil {
				return err
			}
			if err := ed.ImportStore(s, false); err != nil {
				return err
			}
			if module != "" {
				if err := ed.ChangeModule(module); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := scene.Render(w, ed.Scene().Root); err != nil {
				return fmt.Errorf("render %s: %w", ed.ActiveModule(), err)
			}
			if output != "" {
				good.Fprintf(cmd.ErrOrStderr(), "  ✓ %s → %s\n", ed.ActiveModule(), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&module, "module", "m", "", "Module to render (default Home)")
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Config file for editor options and templates")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write markup to a file instead of stdout")
	return cmd
}
