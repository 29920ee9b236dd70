package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/keycontent/keycontent/internal/batch"
	"github.com/keycontent/keycontent/internal/ui"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [keyword]...",
	Short: "Generate content for one or more keywords.",
	Long: `Generates content for each keyword in order: finds or creates the content
item, generates the configured text fields in one API call, then generates
and stores every enabled image field. Keywords are processed one at a time
with a pause between them; Ctrl+C stops after the in-flight keyword.

Keywords come from arguments, or from a file with one keyword per line via
--file. Requires an API key in the config file or the OPENAI_API_KEY
environment variable.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		keywords := args
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			fromFile, err := readKeywordFile(file)
			if err != nil {
				HandleFatalError(fmt.Sprintf("Error: Could not read keyword file '%s'.", file), err)
			}
			keywords = append(keywords, fromFile...)
		}
		if len(keywords) == 0 {
			return fmt.Errorf("no keywords given; pass them as arguments or via --file")
		}

		app, err := newAppContext()
		if err != nil {
			HandleFatalError("Error: Could not initialize the application.", err)
		}
		defer app.Close()

		publish, _ := cmd.Flags().GetBool("publish")
		instructions, _ := cmd.Flags().GetString("instructions")
		showLog, _ := cmd.Flags().GetBool("show-log")

		delay := time.Duration(app.cfg.Batch.DelaySeconds) * time.Second
		if cmd.Flags().Changed("delay") {
			seconds, _ := cmd.Flags().GetInt("delay")
			delay = time.Duration(seconds) * time.Second
		}

		worker := batch.NewWorker(app.intake, app.orch, app.cfg.Content.Type, delay,
			publish || app.cfg.Batch.AutoPublish)
		worker.OnItem = func(item batch.ItemResult) {
			if item.Err != nil {
				PrintError(fmt.Sprintf("%s: %s", item.Keyword, item.Err), item.Err)
				return
			}
			fmt.Println(ui.RenderResult(item.Keyword, item.Result))
			if showLog || verbose {
				fmt.Println(ui.RenderDebugLog(item.Result.Log))
			}
			if path, err := app.runLogs.Write(item.Result.ItemID, item.Result); err != nil {
				LogError("could not persist run log", err)
			} else {
				LogError("run log written to "+path, nil)
			}
		}

		summary := worker.Run(ctx, keywords, instructions)
		fmt.Println()
		fmt.Println(ui.RenderSummary(summary))

		if summary.Succeeded == 0 && summary.Failed > 0 {
			return fmt.Errorf("all %d keywords failed", summary.Failed)
		}
		return nil
	},
}

func readKeywordFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var keywords []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			keywords = append(keywords, line)
		}
	}
	return keywords, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("file", "", "file with one keyword per line")
	generateCmd.Flags().Bool("publish", false, "publish generated items instead of leaving them as drafts")
	generateCmd.Flags().String("instructions", "", "extra instructions applied to every newly created item")
	generateCmd.Flags().Int("delay", 0, "seconds to wait between keywords (overrides batch.delaySeconds)")
	generateCmd.Flags().Bool("show-log", false, "print each run's debug log")
}
