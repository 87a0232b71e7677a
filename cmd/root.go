package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/internhub/internal/logger"
	"github.com/spigell/internhub/internal/server"
)

const (
	app = "internhub"
)

type Config struct {
	AI     *AIConfig     `mapstructure:"ai" json:"ai"`
	Server server.Config `mapstructure:"server" json:"server"`
	Batch  *BatchConfig  `mapstructure:"batch" json:"batch"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled" json:"enabled"`
	Provider string        `mapstructure:"provider" json:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini" json:"gemini"`
}

type GeminiConfig struct {
	APIKey          string  `mapstructure:"api-key" json:"-"`
	APIKeyFile      string  `mapstructure:"api-key-file" json:"api-key-file,omitempty"`
	Model           string  `mapstructure:"model" json:"model"`
	MaxRetries      int     `mapstructure:"max-retries" json:"max-retries"`
	MaxLogLength    int     `mapstructure:"max-log-length" json:"max-log-length"`
	Temperature     float32 `mapstructure:"temperature" json:"temperature"`
	MaxOutputTokens int32   `mapstructure:"max-output-tokens" json:"max-output-tokens"`
}

type BatchConfig struct {
	Concurrency      int      `mapstructure:"concurrency" json:"concurrency"`
	MinScore         float64  `mapstructure:"min-score" json:"min-score"`
	Limit            int      `mapstructure:"limit" json:"limit"`
	ExcludeCompanies []string `mapstructure:"exclude-companies" json:"exclude-companies,omitempty"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "internhub matches student profiles against internships",
		Long: "internhub scores a student profile against internship descriptions with a deterministic\n" +
			"ATS-style keyword score and, when a Gemini API key is configured, adds an AI written\n" +
			"summary, skill gaps, strengths, recommendations and a tailored resume.",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	setDefaults(viper.GetViper())

	if err := bindEnv(viper.GetViper()); err != nil {
		log.Fatalf("binding environment variables: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is internhub.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
	v.SetDefault("ai.gemini.temperature", 0.7)
	v.SetDefault("ai.gemini.max-output-tokens", 2048)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.min-score", 0)
	v.SetDefault("batch.limit", 0)
	v.SetDefault("batch.exclude-companies", []string{})
}

// bindEnv maps INTERNHUB_AI_GEMINI_MODEL style variables onto config keys.
// The Gemini key also honours the conventional unprefixed names.
func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(strings.ToUpper(app))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("ai.gemini.api-key-file", "INTERNHUB_AI_GEMINI_API_KEY_FILE", "GEMINI_API_KEY_FILE"); err != nil {
		return err
	}
	return v.BindEnv("ai.gemini.api-key", "INTERNHUB_AI_GEMINI_API_KEY", "GEMINI_API_KEY")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was asked for explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.Batch == nil {
		config.Batch = &BatchConfig{}
	}

	return config, nil
}

// setup creates the logger and loads the config, exiting on failure.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err), zap.String("hint", "check "+app+".yaml and INTERNHUB_* variables"))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("config file loaded", zap.String("file", used))
	}

	return logger, config
}
