package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/smasonuk/beamscene/render"
	"github.com/smasonuk/beamscene/render/preview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the scene in a window",
	Long: `preview draws the scene with a flat shaded rasterizer. Drag to turn
the scene around the laser focus, scroll to zoom, R resets the view and Esc
quits. The --config file is watched and the scene rebuilt when it
changes; the other scene flags do not apply.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return preview.Run(cmd.Context(), flags.config)
	},
}

var meshOut string

var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Export the previewed scene as a PLY mesh",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		world, _, err := render.BuildWorld(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		if meshOut == "" {
			return world.WritePLY(os.Stdout)
		}
		f, err := os.Create(meshOut)
		if err != nil {
			return fmt.Errorf("could not create mesh file %s: %w", meshOut, err)
		}
		defer f.Close()
		if err := world.WritePLY(f); err != nil {
			return fmt.Errorf("error writing mesh %s: %w", meshOut, err)
		}
		slog.Info("mesh written", "path", meshOut, "faces", world.FaceCount())
		return f.Close()
	},
}

func init() {
	meshCmd.Flags().StringVarP(&meshOut, "out", "o", "", "PLY file to write")
	rootCmd.AddCommand(previewCmd, meshCmd)
}
