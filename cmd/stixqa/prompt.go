package stixqa

import (
	"fmt"

	"github.com/soundprediction/stix-qa/pkg/prompts"
	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:       "prompt generate|format",
	Short:     "Print an assembled system prompt",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"generate", "format"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		lib := prompts.NewLibrary(prompts.Options{IncludeGrammar: cfg.Prompts.IncludeGrammar})

		switch args[0] {
		case "generate":
			fmt.Fprintln(cmd.OutOrStdout(), lib.GenerateQuery())
		case "format":
			fmt.Fprintln(cmd.OutOrStdout(), lib.FormatAnswer())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}
