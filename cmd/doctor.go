package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appconfig "github.com/keycontent/keycontent/internal/config"
	"github.com/keycontent/keycontent/internal/ui"
	"github.com/keycontent/keycontent/llm"
	"github.com/keycontent/keycontent/types"
)

// doctorCmd checks the local setup without making any API call.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and local storage.",
	Long: `Verifies everything generation needs before spending API quota: the
config file, the API key, the content store, and the asset and log
directories. No network calls are made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		failures := 0

		check := func(name string, ok bool, hint string) {
			if ok {
				fmt.Println(ui.StyleSuccess.Render("✓ " + name))
				return
			}
			failures++
			fmt.Println(ui.StyleError.Render("✗ " + name))
			if hint != "" {
				fmt.Println(ui.StyleSubtle.Render("  " + hint))
			}
		}

		if used := viper.ConfigFileUsed(); used != "" {
			check("config file: "+used, true, "")
		} else {
			fmt.Println(ui.StyleWarning.Render("! no config file found, using defaults"))
		}

		check("API key configured", appconfig.ResolveAPIKey(&cfg.LLM) != "",
			"set llm.apiKey in the config file or export OPENAI_API_KEY")

		_, err := llm.NewGenerator(&cfg.LLM, types.NopSink{})
		check(fmt.Sprintf("generation provider %q supported", cfg.LLM.Provider), err == nil,
			fmt.Sprint(err))

		items, err := GetStore()
		check("content store at "+GetContentFilePath(), err == nil, fmt.Sprint(err))
		if err == nil {
			_ = items.Close()
		}

		assetsDir := filepath.Join(cfg.Project.RootDir, cfg.Data.AssetsDir)
		check("assets directory "+assetsDir, dirWritable(assetsDir),
			"directory must exist or be creatable")

		logsDir := filepath.Join(cfg.Project.RootDir, cfg.Project.LogsDir)
		check("logs directory "+logsDir, dirWritable(logsDir),
			"directory must exist or be creatable")

		check(fmt.Sprintf("content type %q configured", cfg.Content.Type), cfg.Content.Type != "",
			"set content.type in the config file")

		if failures > 0 {
			return fmt.Errorf("%d checks failed", failures)
		}
		fmt.Println(ui.StyleTitle.Render("All checks passed."))
		return nil
	},
}

func dirWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".doctor_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
