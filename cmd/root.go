package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/keycontent/keycontent/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "keycontent",
	Short: "KeyContentAI turns keywords into ready-to-publish content.",
	Long: `KeyContentAI generates complete content items from keywords: it resolves
your brand and per-type settings into prompts, calls the generation API for
text and images, and writes the results back into the content store.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.keycontent/.keycontent.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetContentFilePath returns the full path to the content store file.
func GetContentFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Project.DataDir, config.Data.File)
}

// GetStore initializes and returns the content store.
func GetStore() (store.ContentStore, error) {
	s := store.NewFileContentStore()
	config := GetConfig()

	if err := s.Initialize(map[string]string{
		"dataFile":       GetContentFilePath(),
		"dataFileFormat": config.Data.Format,
	}); err != nil {
		return nil, err
	}
	return s, nil
}
