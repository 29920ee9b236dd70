package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keycontent/keycontent/internal/fields"
	"github.com/keycontent/keycontent/internal/ui"
	"github.com/keycontent/keycontent/types"
)

// fieldsCmd lists the generatable fields of a content type.
var fieldsCmd = &cobra.Command{
	Use:   "fields [type]",
	Short: "List the generatable fields of a content type.",
	Long: `Shows every field the generator knows for a content type: the baseline
fields first, then provider-supplied groups, with the effective enabled
state after applying saved settings and the configured default policy.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			HandleFatalError("Error: Could not initialize the application.", err)
		}
		defer app.Close()

		contentType := app.cfg.Content.Type
		if len(args) == 1 {
			contentType = args[0]
		}

		policy, err := fields.ParseEnabledDefault(app.cfg.Content.EnabledDefault)
		if err != nil {
			return err
		}

		var saved map[string]bool
		if tc, ok := app.cfg.Types[contentType]; ok {
			saved = tc.EnabledMap()
		}

		enabled := map[string]bool{}
		if specs, err := app.registry.EnabledFields(contentType, saved, policy); err == nil {
			for _, s := range specs {
				enabled[s.Key] = true
			}
		} else if !types.HasCode(err, types.CodeNoFields) {
			return err
		}

		fmt.Println(ui.StyleSectionTitle.Render(fmt.Sprintf("Fields for type %q", contentType)))
		for _, spec := range app.registry.ListFields(contentType) {
			marker := ui.StyleSubtle.Render("off")
			if enabled[spec.Key] {
				marker = ui.StyleSuccess.Render("on ")
			}
			line := fmt.Sprintf("%s  %-20s %-9s %s", marker, spec.Key, spec.Kind, spec.Source)
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
