package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keycontent/keycontent/internal/ui"
)

// loadCmd creates or finds content items for keywords without generating.
var loadCmd = &cobra.Command{
	Use:   "load [keyword]...",
	Short: "Create or find content items for keywords without generating.",
	Long: `Resolves each keyword to a content item in the configured type, creating
a draft when none exists yet. Running it twice with the same keyword never
creates a duplicate. Useful for staging a batch before generation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			HandleFatalError("Error: Could not initialize the application.", err)
		}
		defer app.Close()

		publish, _ := cmd.Flags().GetBool("publish")
		instructions, _ := cmd.Flags().GetString("instructions")

		failed := 0
		for _, keyword := range args {
			result, err := app.intake.LoadKeyword(keyword, publish, instructions)
			if err != nil {
				failed++
				PrintError(fmt.Sprintf("%s: %s", keyword, err), err)
				continue
			}
			switch {
			case result.Created:
				fmt.Println(ui.StyleSuccess.Render(fmt.Sprintf("created %s (item %s)", keyword, result.ItemID)))
			case result.Published:
				fmt.Println(ui.StylePrimary.Render(fmt.Sprintf("published existing %s (item %s)", keyword, result.ItemID)))
			default:
				fmt.Println(ui.StyleSubtle.Render(fmt.Sprintf("exists %s (item %s)", keyword, result.ItemID)))
			}
		}
		if failed == len(args) {
			return fmt.Errorf("no keywords could be loaded")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().Bool("publish", false, "publish items instead of leaving them as drafts")
	loadCmd.Flags().String("instructions", "", "extra instructions stored on newly created items")
}
