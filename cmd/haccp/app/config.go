package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables, .env files and flags.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Input configuration
	DataDir      string
	ManifestPath string
	Encoding     string
	FailOnEmpty  bool

	// Chart configuration
	FontPath string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. HACCP_* environment variables
//  3. .env files
//  4. Config file (configFile, or .haccp.yaml in $HOME or ".")
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// .env files first so viper sees their values
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("encoding", constants.DefaultEncoding)
	v.SetDefault("output", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "cannot parse "+constants.DefaultConfigName+".yaml", err)
			}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Output:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		DataDir:      v.GetString("data_dir"),
		ManifestPath: v.GetString("manifest"),
		Encoding:     v.GetString("encoding"),
		FailOnEmpty:  v.GetBool("fail_on_empty"),

		FontPath: v.GetString("font"),

		// The unprefixed LOG_* variables are shared with pkg/logging
		LogLevel:  firstNonEmpty(v.GetString("log_level"), os.Getenv("LOG_LEVEL")),
		LogFormat: firstNonEmpty(v.GetString("log_format"), os.Getenv("LOG_FORMAT"), "auto"),
		LogOutput: firstNonEmpty(v.GetString("log_output"), os.Getenv("LOG_OUTPUT"), "stderr"),
	}

	return config, nil
}

// UpdateFromFlags copies every flag the user set explicitly from flags into
// c, so flags take precedence over config files and the environment.
func (c *Config) UpdateFromFlags(flags *Config, changed func(name string) bool) {
	if changed("verbose") {
		c.Verbose = flags.Verbose
	}
	if changed("quiet") {
		c.Quiet = flags.Quiet
	}
	if changed("no-color") {
		c.NoColor = flags.NoColor
	}
	if changed("output") {
		c.Output = flags.Output
	}
	if changed("data-dir") {
		c.DataDir = flags.DataDir
	}
	if changed("manifest") {
		c.ManifestPath = flags.ManifestPath
	}
	if changed("encoding") {
		c.Encoding = flags.Encoding
	}
	if changed("log-level") {
		c.LogLevel = flags.LogLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first because godotenv never overrides a set variable.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
