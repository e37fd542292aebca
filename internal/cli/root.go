package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/commitmood/internal/logging"
	"github.com/ppiankov/commitmood/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is overridden at build time: -ldflags "-X github.com/ppiankov/commitmood/internal/cli.Version=v1.2.3"
var Version = "dev"

const envPrefix = "COMMITMOOD"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string

	// set by initConfig, reported by setup
	configErr error

	// set by PersistentPreRunE
	appConfig *model.Config
	logger    = logging.NewNopLogger()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "commitmood",
	Short: "Highlight the words that drive commit message sentiment",
	Long: `commitmood scores commit messages and highlights the words responsible
for the score: positive words in green, negative words in red.

Commits are read from a GitHub list-commits JSON export (or commitmood's own
JSON output). Scores come from the built-in lexicon, an OpenAI-compatible
model or a local Ollama model, and can be rendered as text, markdown, HTML or JSON.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// version works even with a broken config file
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "commitmood %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.commitmood/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (forces debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console, json")

	rootCmd.AddCommand(versionCmd)
}

// defaultConfigPath returns $HOME/.commitmood/config.yaml
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".commitmood", "config.yaml"), nil
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if path, err := defaultConfigPath(); err == nil {
		viper.AddConfigPath(filepath.Dir(path))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match COMMITMOOD_*, e.g. COMMITMOOD_LLM_API_KEY
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configErr = nil
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			configErr = fmt.Errorf("read config: %w", err)
		}
	} else if verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env variables are seen by Unmarshal
func setDefaults(cfg *model.Config) {
	viper.SetDefault("analyzer.provider", cfg.Analyzer.Provider)
	viper.SetDefault("analyzer.lexicon_path", cfg.Analyzer.LexiconPath)
	viper.SetDefault("analyzer.negation", cfg.Analyzer.Negation)
	viper.SetDefault("analyzer.attribution_kind", cfg.Analyzer.AttributionKind)

	viper.SetDefault("llm.model", cfg.LLM.Model)
	viper.SetDefault("llm.api_key", cfg.LLM.APIKey)
	viper.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	viper.SetDefault("llm.timeout", cfg.LLM.Timeout)
	viper.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)
	viper.SetDefault("llm.requests_per_second", cfg.LLM.RequestsPerSecond)
	viper.SetDefault("llm.burst", cfg.LLM.Burst)
	viper.SetDefault("llm.http_proxy", cfg.LLM.HTTPProxy)
	viper.SetDefault("llm.https_proxy", cfg.LLM.HTTPSProxy)

	viper.SetDefault("cache.enabled", cfg.Cache.Enabled)
	viper.SetDefault("cache.dir", cfg.Cache.Dir)
	viper.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	viper.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)
	viper.SetDefault("cache.pattern_ttl", cfg.Cache.PatternTTL)

	viper.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	viper.SetDefault("output.format", cfg.Output.Format)
	viper.SetDefault("output.color", cfg.Output.Color)
	viper.SetDefault("output.summary", cfg.Output.Summary)

	viper.SetDefault("log.level", cfg.Log.Level)
	viper.SetDefault("log.format", cfg.Log.Format)
}

// loadConfig merges defaults, config file, env and bound flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// setup loads the configuration and builds the logger before any subcommand runs
func setup(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	l, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	appConfig = cfg
	logger = l.Named("cli")
	logger.Debug("configuration loaded",
		logging.String("config_file", viper.ConfigFileUsed()),
		logging.String("analyzer", cfg.Analyzer.Provider))
	return nil
}
