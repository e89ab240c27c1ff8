package stixqa

import (
	"fmt"
	"os"
	"strings"

	"github.com/soundprediction/stix-qa/pkg/config"
	"github.com/soundprediction/stix-qa/pkg/pipeline"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question against a running proxy",
	Long: `Run the full pipeline once and print the answer and the generated TypeQL.

The API key comes from --api-key, or from ANTHROPIC_API_KEY / OPENAI_API_KEY
depending on the configured provider. It is never written to disk.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().String("api-key", "", "LLM API key")
	askCmd.Flags().String("endpoint", "", "JSON-RPC proxy URL (defaults to executor.endpoint)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = credentialFromEnv(cfg.LLM.Provider)
	}
	endpoint, _ := cmd.Flags().GetString("endpoint")

	view := pipeline.ViewFunc(func(s pipeline.ViewState) {
		a.logger.Debug("Pipeline state", "phase", string(s.Phase), "loading", s.Loading)
	})

	state, err := a.newOrchestrator(view).Submit(cmd.Context(), pipeline.Submission{
		Question:   strings.Join(args, " "),
		Credential: apiKey,
		Endpoint:   endpoint,
	})
	if err != nil {
		if state.CredentialPromptOpen {
			return fmt.Errorf("%s (use --api-key)", state.Error)
		}
		return fmt.Errorf("%s", state.Error)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, state.Answer)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "TypeQL:")
	fmt.Fprintln(out, state.Query)
	return nil
}

func credentialFromEnv(provider string) string {
	if provider == config.ProviderOpenAI {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}
