package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/chazu/airsketch/pkg/config"
	"github.com/chazu/airsketch/pkg/engine"
	"github.com/chazu/airsketch/pkg/graph"
	"github.com/chazu/airsketch/pkg/logging"
	"github.com/chazu/airsketch/pkg/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "airsketch",
	Short: "Replay and inspect gesture scripts for the airsketch 3D sketcher",
	Long: `airsketch drives a headless sketching session from gesture scripts.
A script moves a tracked tool, presses its trigger and picks menu icons;
the resulting strokes can be summarised or previewed as SVG.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func init() {
	addConfigFlags(rootCmd)
}

// addConfigFlags registers the persistent flags loadConfig reads.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.BoolP("verbose", "v", false, "log session events to stderr")
	f.StringP("config", "c", "", "YAML or TOML config file")
	f.Float64("threshold", 0, "override travel_threshold")
	f.Float64("width", 0, "override stroke_width")
	f.Float64("radius", 0, "override tool_radius")
	f.String("color", "", "override default_color as #RRGGBB")
	f.Duration("timeout", 0, "override eval_timeout")
}

// loadConfig reads --config when given and applies any override flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	flags := cmd.Flags()
	if path, _ := flags.GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("threshold") {
		cfg.TravelThreshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("width") {
		cfg.StrokeWidth, _ = flags.GetFloat64("width")
	}
	if flags.Changed("radius") {
		cfg.ToolRadius, _ = flags.GetFloat64("radius")
	}
	if flags.Changed("color") {
		s, _ := flags.GetString("color")
		c, err := graph.ParseHex(s)
		if err != nil {
			return config.Config{}, err
		}
		cfg.DefaultColor = c
	}
	if flags.Changed("timeout") {
		d, _ := flags.GetDuration("timeout")
		cfg.EvalTimeout = config.Duration(d)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logging.Logger().Debug("config loaded",
		"threshold", cfg.TravelThreshold, "width", cfg.StrokeWidth,
		"radius", cfg.ToolRadius, "timeout", cfg.Timeout())
	return engine.NewEngine(engine.WithConfig(cfg)), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
