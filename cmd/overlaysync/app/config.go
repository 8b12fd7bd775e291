package app

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/overlaysync/pkg/constants"
	"github.com/agentstation/overlaysync/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files. Command-line flags are applied on
// top by the root command.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// ConfigFile is the config file that was read, if any
	ConfigFile string

	// Document selection
	Document string
	WatchDir string
	Pattern  string
	Catalog  string

	// Engine tuning
	QuietThreshold time.Duration
	SettleDelay    time.Duration
	PollInterval   time.Duration
	HistoryWindow  int
	FSNotify       bool

	// Listen is the diagnostics API address; empty disables it
	Listen string

	// Overrides are the desired key/value pairs applied at startup
	Overrides map[string]string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Environment variables (OVERLAYSYNC_*)
//  2. .env and .env.local files
//  3. Config file (configFile, or .overlaysync.yaml in $HOME or the
//     working directory)
//  4. Defaults
//
// A missing default config file is not an error; a missing explicit one is.
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "cannot read config file", err)
		}
	}

	overrides, err := loadOverrides(v)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Verbose:    v.GetBool("verbose"),
		Quiet:      v.GetBool("quiet"),
		NoColor:    v.GetBool("no_color"),
		Format:     v.GetString("format"),
		ConfigFile: v.ConfigFileUsed(),

		Document: v.GetString("document"),
		WatchDir: v.GetString("watch_dir"),
		Pattern:  v.GetString("pattern"),
		Catalog:  v.GetString("catalog"),

		QuietThreshold: v.GetDuration("quiet_threshold"),
		SettleDelay:    v.GetDuration("settle_delay"),
		PollInterval:   v.GetDuration("poll_interval"),
		HistoryWindow:  v.GetInt("history_window"),
		FSNotify:       v.GetBool("fsnotify"),

		Listen:    v.GetString("listen"),
		Overrides: overrides,

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	return config, nil
}

// loadOverrides returns the overrides map with its keys exactly as written.
// Viper folds map keys to lower case, and document keys are case
// sensitive, so a YAML or JSON config file is decoded again here. The
// environment variable still wins over the file.
func loadOverrides(v *viper.Viper) (map[string]string, error) {
	if _, ok := os.LookupEnv(constants.EnvPrefix + "_OVERRIDES"); ok {
		return nonNil(v.GetStringMapString("overrides")), nil
	}

	path := v.ConfigFileUsed()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json", "":
	default:
		return nonNil(v.GetStringMapString("overrides")), nil
	}
	if path == "" {
		return map[string]string{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("config", "cannot read config file", err)
	}
	var file struct {
		Overrides map[string]any `yaml:"overrides"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewConfigError("overrides", "cannot decode overrides", err)
	}

	overrides := make(map[string]string, len(file.Overrides))
	for key, value := range file.Overrides {
		if value == nil {
			continue
		}
		overrides[key] = fmt.Sprint(value)
	}
	return overrides, nil
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("no_color", false)
	v.SetDefault("format", "")
	v.SetDefault("document", "")
	v.SetDefault("watch_dir", ".")
	v.SetDefault("pattern", constants.DefaultDocumentPattern)
	v.SetDefault("catalog", constants.DefaultCatalogFile)
	v.SetDefault("quiet_threshold", constants.DefaultQuietThreshold)
	v.SetDefault("settle_delay", constants.DefaultSettleDelay)
	v.SetDefault("poll_interval", constants.DefaultPollInterval)
	v.SetDefault("history_window", constants.DefaultHistoryWindow)
	v.SetDefault("fsnotify", false)
	v.SetDefault("listen", "")
	v.SetDefault("overrides", map[string]string{})
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set in the environment win.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
