package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/smasonuk/beamscene"
	"github.com/smasonuk/beamscene/scene"
)

var beamsJSON bool

var beamsCmd = &cobra.Command{
	Use:   "beams",
	Short: "Print the placement of every beam cone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		focus := scene.LaserFocus(cfg.Focus())
		starts := scene.LaserStarts(focus.Loc, cfg.PlotPoint(), cfg.ExtraPulses)
		segs, err := beamscene.ComputeBeamPathConcurrent(cmd.Context(), starts, focus.Loc, cfg.LaserScaleIn, cfg.LaserScaleOut, 0)
		if err != nil {
			return err
		}

		out := struct {
			Focus scene.Marker            `json:"focus" yaml:"focus"`
			Beams []beamscene.BeamSegment `json:"beams" yaml:"beams"`
		}{focus, segs}

		if beamsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	beamsCmd.Flags().BoolVar(&beamsJSON, "json", false, "print JSON instead of YAML")
	rootCmd.AddCommand(beamsCmd)
}
