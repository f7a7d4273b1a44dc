package main

import (
	"github.com/spf13/cobra"

	"github.com/smasonuk/beamscene/logx"
	"github.com/smasonuk/beamscene/scene"
)

var flags struct {
	config string

	debug, verbose, quiet bool

	noMirror, noProteins, transparent, extraPulses bool
	resources                                      string
}

var rootCmd = &cobra.Command{
	Use:   "beamscene",
	Short: "Build the laser spectroscopy figure",
	Long: `beamscene places the converging laser beams, the sample block and
its channels, the plot, the protein, the camera and the lamps of the
spectroscopy figure.

The scene can be previewed in a window, recorded into a plan file that a
modelling tool replays, exported as a PLY mesh or streamed to a modelling
tool listening on a websocket.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logx.SetDefault(logx.LevelFromFlags(flags.debug, flags.verbose, flags.quiet))
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "scene config file (.toml, .yaml)")
	pf.BoolVar(&flags.debug, "debug", false, "log everything")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log progress")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "log errors only")

	pf.BoolVar(&flags.noMirror, "no-mirror", false, "put the plot on a bare plane")
	pf.BoolVar(&flags.noProteins, "no-proteins", false, "skip the protein meshes")
	pf.BoolVar(&flags.transparent, "transparent", false, "render without the sky")
	pf.BoolVar(&flags.extraPulses, "extra-pulses", false, "draw the four beam pulse sequence")
	pf.StringVar(&flags.resources, "resources", "", "resource variant: default or alternate")
}

// loadConfig reads --config, or starts from the defaults, and applies the
// flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (scene.Config, error) {
	cfg := scene.DefaultConfig()
	if flags.config != "" {
		var err error
		if cfg, err = scene.LoadConfig(flags.config); err != nil {
			return cfg, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("no-mirror") {
		cfg.UseMirror = !flags.noMirror
	}
	if changed("no-proteins") {
		cfg.RenderProteins = !flags.noProteins
	}
	if changed("transparent") {
		cfg.TransparentBackground = flags.transparent
	}
	if changed("extra-pulses") {
		cfg.ExtraPulses = flags.extraPulses
	}
	if changed("resources") {
		if err := cfg.ResourceVariant.UnmarshalText([]byte(flags.resources)); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}
