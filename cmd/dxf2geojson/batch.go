package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wayfinding/internal/converter/manifest"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every floor listed in a manifest",
	Long: `Batch converts all floors of a YAML manifest. Relative paths are resolved
against the manifest's directory. A failing floor does not stop the others;
the command fails if any floor failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("manifest")
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)
		out := cmd.OutOrStdout()

		failed := 0
		for _, r := range m.Run() {
			if r.Err != nil {
				failed++
				red.Fprintf(out, "✗ %s: %v\n", r.Floor, r.Err)
				continue
			}
			green.Fprintf(out, "✓ %s -> %s\n", r.Floor, r.Output)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d floors failed", failed, len(m.Floors))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().String("manifest", "floors.yaml", "floor manifest file")

	rootCmd.AddCommand(batchCmd)
}
