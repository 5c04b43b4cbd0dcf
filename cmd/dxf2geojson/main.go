// Command dxf2geojson извлекает стены и зоны навигации из DXF чертежей этажей.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version проставляется при сборке через ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "dxf2geojson",
	Short: "Convert DXF floor plans to GeoJSON maps",
	Long: `dxf2geojson reads a DXF drawing and writes a GeoJSON FeatureCollection:
LINE and polyline geometry becomes "wall" features, closed polylines on floor
layers become "nav_area" polygons. Coordinates are multiplied by --scale.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dxf2geojson.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dxf2geojson")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("DXF2GEOJSON")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}
