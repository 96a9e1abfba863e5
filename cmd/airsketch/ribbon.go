package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/airsketch/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/spf13/cobra"
)

var ribbonCmd = &cobra.Command{
	Use:   "ribbon [x,y,z]...",
	Short: "Tessellate a ribbon through the given points",
	Long:  "Build the ribbon mesh a stroke through the given points would get and print its size and bounds.",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRibbon,
}

func init() {
	rootCmd.AddCommand(ribbonCmd)
}

func runRibbon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	points := make([]v3.Vec, 0, len(args))
	for _, a := range args {
		p, err := parsePoint(a)
		if err != nil {
			return err
		}
		points = append(points, p)
	}
	mesh, err := tessellate.Ribbon(points, cfg.StrokeWidth)
	if err != nil {
		return err
	}

	b := mesh.Bounds()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Ribbon")
	fmt.Fprintf(out, "  Samples:   %d\n", len(points))
	fmt.Fprintf(out, "  Width:     %g\n", cfg.StrokeWidth)
	fmt.Fprintf(out, "  Vertices:  %d\n", mesh.VertexCount())
	fmt.Fprintf(out, "  Triangles: %d\n", mesh.TriangleCount())
	fmt.Fprintf(out, "  Min:       %s\n", formatVec(b.Min))
	fmt.Fprintf(out, "  Max:       %s\n", formatVec(b.Max))
	return nil
}

// parsePoint parses "x,y,z".
func parsePoint(s string) (v3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v3.Vec{}, fmt.Errorf("point %q: want x,y,z", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v3.Vec{}, fmt.Errorf("point %q: %w", s, err)
		}
		xyz[i] = f
	}
	return v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func formatVec(v v3.Vec) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
