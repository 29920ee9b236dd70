package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/keycontent/keycontent/internal/config"
	"github.com/keycontent/keycontent/llm"
	"github.com/keycontent/keycontent/types"
)

const (
	configName = ".keycontent"
	envPrefix  = "KEYCONTENT"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

func validateAppConfig(config *types.AppConfig) error {
	return validate.Struct(config)
}

// InitConfig reads in the config file and ENV variables if set.
func InitConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g. KEYCONTENT_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")

	// The config file lives inside the project root dir, so that directory
	// name has to be known before the file is loaded.
	projectConfigDir := viper.GetString("project.rootDir")
	if projectConfigDir == "" {
		projectConfigDir = ".keycontent"
	}

	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		if _, err := os.Stat(projectConfigDir); !os.IsNotExist(err) {
			viper.AddConfigPath(projectConfigDir)
			viper.SetConfigName(configName)
		} else {
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigName(configName)
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	viper.SetDefault("project.rootDir", ".keycontent")
	viper.SetDefault("project.dataDir", "data")
	viper.SetDefault("project.logsDir", "logs")
	viper.SetDefault("project.templatesDir", "templates")
	viper.SetDefault("data.file", appconfig.DefaultDataFile)
	viper.SetDefault("data.format", appconfig.DefaultDataFormat)
	viper.SetDefault("data.assetsDir", appconfig.DefaultAssetsDir)

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.textModel", llm.DefaultTextModel)
	viper.SetDefault("llm.imageModel", llm.DefaultImageModel)
	viper.SetDefault("llm.temperature", llm.DefaultTemperature)
	viper.SetDefault("llm.maxOutputTokens", llm.DefaultMaxTokens)

	viper.SetDefault("content.type", "post")
	viper.SetDefault("content.language", appconfig.DefaultLanguage)
	viper.SetDefault("content.enabledDefault", "baseline")

	viper.SetDefault("batch.delaySeconds", appconfig.DefaultBatchDelaySeconds)
	viper.SetDefault("batch.keepDebugLogs", appconfig.DefaultKeepDebugLogs)

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	// A config file can exist yet omit these nested keys; fall back to the
	// defaults registered above.
	if GlobalAppConfig.Project.RootDir == "" {
		GlobalAppConfig.Project.RootDir = viper.GetString("project.rootDir")
	}
	if GlobalAppConfig.Project.DataDir == "" {
		GlobalAppConfig.Project.DataDir = viper.GetString("project.dataDir")
	}
	if GlobalAppConfig.Project.LogsDir == "" {
		GlobalAppConfig.Project.LogsDir = viper.GetString("project.logsDir")
	}

	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1)
	}
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
