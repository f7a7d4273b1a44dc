package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/smasonuk/beamscene/scene"
)

var planOut string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Record the scene into a plan file",
	Long: `plan records every call the scene makes into a YAML or JSON plan,
depending on the extension of --out. Without --out the plan is written to
standard output as YAML.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		rec := scene.NewRecorder()
		report, err := scene.Build(cmd.Context(), rec, cfg)
		if err != nil {
			return err
		}
		plan := rec.Plan()

		if planOut == "" {
			return plan.WriteYAML(os.Stdout)
		}
		if err := plan.WriteFile(planOut); err != nil {
			return err
		}
		slog.Info("plan written", "path", planOut,
			"commands", len(plan.Commands),
			"materials", len(plan.Materials),
			"elapsed", report.Elapsed)
		return nil
	},
}

func init() {
	planCmd.Flags().StringVarP(&planOut, "out", "o", "", "plan file (.yaml or .json)")
	rootCmd.AddCommand(planCmd)
}
