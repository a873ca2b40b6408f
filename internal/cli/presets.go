package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scribe-ai/scribe/internal/presets"
	"github.com/scribe-ai/scribe/internal/ui"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available instruction presets",
	Long: `List instruction presets: the built-ins plus any defined in the user
preset file. A preset is selected with --preset or the preset config
key.`,
	Args: cobra.NoArgs,
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	path, err := presets.DefaultPath()
	if err != nil {
		path = ""
	}
	all, err := presets.All(path)
	if err != nil {
		return err
	}

	for _, p := range all {
		fmt.Printf("%-14s %s\n", p.Name, p.Description)
	}
	if path != "" {
		ui.Hint("Add your own in %s", path)
	}
	return nil
}
