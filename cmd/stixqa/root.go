package stixqa

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/soundprediction/stix-qa/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "stixqa",
	Short: "Ask natural-language questions about STIX threat intelligence",
	Long: `stixqa translates cyber-threat-intelligence questions into TypeQL, runs them
against a TypeDB MCP server through a JSON-RPC proxy, and summarises the results.

Configuration can be provided through a config file, STIXQA_* environment
variables, or command-line flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./stixqa.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "color", "log format (color, text, json)")
	rootCmd.PersistentFlags().String("llm-provider", "anthropic", "completion provider (anthropic, openai)")
	rootCmd.PersistentFlags().String("llm-model", "", "model identifier")
	rootCmd.PersistentFlags().String("llm-base-url", "", "completion API base URL")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("llm-model"))
	_ = viper.BindPFlag("llm.base_url", rootCmd.PersistentFlags().Lookup("llm-base-url"))
}

// initConfig reads the config file when one is given or found.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("stixqa")
	}
	// A missing default config file is fine; defaults and env still apply.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		cobra.CheckErr(fmt.Errorf("failed to read config %s: %w", cfgFile, err))
	}
}

// loadConfig loads configuration, applies command-specific overrides and validates the result.
func loadConfig(override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
