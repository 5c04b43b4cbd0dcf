package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wayfinding/internal/converter/mapper"
	"wayfinding/internal/converter/models"
)

var convertCmd = &cobra.Command{
	Use:   "convert SOURCE OUTPUT",
	Short: "Convert one DXF drawing to a GeoJSON map",
	Long: `Convert reads SOURCE (an ASCII DXF file) and writes OUTPUT as pretty-printed
GeoJSON. An existing OUTPUT is overwritten. Repeat --floor-layer for every
layer whose closed polylines describe walkable floor.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := extractOptions()
		if err != nil {
			return err
		}
		if err := mapper.Extract(args[0], args[1], opts); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Saved %s\n", args[1])
		return nil
	},
}

func init() {
	convertCmd.Flags().Float64("scale", mapper.DefaultScale, "multiplier applied to every coordinate")
	convertCmd.Flags().StringSlice("floor-layer", nil, "layer treated as walkable floor (repeatable)")
	convertCmd.Flags().Float64("simplify", 0, "Douglas-Peucker tolerance for walls, 0 disables")

	viper.BindPFlag("scale", convertCmd.Flags().Lookup("scale"))
	viper.BindPFlag("floor_layers", convertCmd.Flags().Lookup("floor-layer"))
	viper.BindPFlag("simplify", convertCmd.Flags().Lookup("simplify"))

	rootCmd.AddCommand(convertCmd)
}

// extractOptions собирает параметры из флагов, конфига и DXF2GEOJSON_* окружения.
func extractOptions() (mapper.Options, error) {
	scale := viper.GetFloat64("scale")
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale <= 0 {
		return mapper.Options{}, fmt.Errorf("scale must be a positive finite number, got %g", scale)
	}
	simplify := viper.GetFloat64("simplify")
	if math.IsNaN(simplify) || math.IsInf(simplify, 0) || simplify < 0 {
		return mapper.Options{}, fmt.Errorf("simplify must be a non-negative finite number, got %g", simplify)
	}

	var layers []string
	for _, item := range viper.GetStringSlice("floor_layers") {
		for _, name := range strings.Split(item, ",") {
			if name = strings.TrimSpace(name); name != "" {
				layers = append(layers, name)
			}
		}
	}

	return mapper.Options{
		Scale:       scale,
		FloorLayers: models.NewLayerSet(layers...),
		Simplify:    simplify,
	}, nil
}
