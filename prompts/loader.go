// Package prompts renders the generation prompts: a deterministic text
// prompt demanding strict JSON output and one image prompt per image field.
package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PromptKey identifies one overridable prompt constant.
type PromptKey string

const (
	// KeyRole is the role statement opening the text prompt.
	KeyRole PromptKey = "Role"
	// KeyQuality is the closing quality-directive block of the text prompt.
	KeyQuality PromptKey = "Quality"
	// KeyImageStyle is the fixed style block of every image prompt.
	KeyImageStyle PromptKey = "ImageStyle"
)

// promptConfig defines the default content and override filename for a prompt.
type promptConfig struct {
	defaultContent string
	filename       string
}

var promptRegistry = map[PromptKey]promptConfig{
	KeyRole: {
		defaultContent: RolePrompt,
		filename:       "role_prompt.txt",
	},
	KeyQuality: {
		defaultContent: QualityDirectives,
		filename:       "quality_prompt.txt",
	},
	KeyImageStyle: {
		defaultContent: ImageStylePrompt,
		filename:       "image_style_prompt.txt",
	},
}

// GetPrompt returns the content of a user-provided override file from
// templatesDir when one exists, else the hardcoded default.
func GetPrompt(key PromptKey, templatesDir string) (string, error) {
	config, ok := promptRegistry[key]
	if !ok {
		return "", fmt.Errorf("unrecognized prompt key: %s", key)
	}

	if strings.TrimSpace(templatesDir) == "" {
		return config.defaultContent, nil
	}

	customPromptPath := filepath.Join(templatesDir, config.filename)
	if _, err := os.Stat(customPromptPath); err == nil {
		content, readErr := os.ReadFile(customPromptPath)
		if readErr != nil {
			return "", fmt.Errorf("failed to read custom prompt file at %s: %w", customPromptPath, readErr)
		}
		return strings.TrimSpace(string(content)), nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("error checking for custom prompt file at %s: %w", customPromptPath, err)
	}

	return config.defaultContent, nil
}
