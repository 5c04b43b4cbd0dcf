package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"wayfinding/internal/converter/mapper"
)

var renderCmd = &cobra.Command{
	Use:   "render INPUT OUTPUT",
	Short: "Render a GeoJSON map to SVG for visual checks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		svg, err := mapper.NewRenderer().Render(fc)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], []byte(svg), 0o644); err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Rendered %s\n", args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
