package prompts

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/keycontent/keycontent/internal/config"
	"github.com/keycontent/keycontent/models"
	"github.com/keycontent/keycontent/types"
)

// Builder assembles generation prompts from a settings bundle. Building is
// pure and deterministic; the only I/O happens once in NewBuilder when the
// overridable prompt constants are loaded.
type Builder struct {
	role       string
	quality    string
	imageStyle string
}

// NewBuilder loads the prompt constants, honoring template-file overrides
// from templatesDir.
func NewBuilder(templatesDir string) (*Builder, error) {
	role, err := GetPrompt(KeyRole, templatesDir)
	if err != nil {
		return nil, err
	}
	quality, err := GetPrompt(KeyQuality, templatesDir)
	if err != nil {
		return nil, err
	}
	imageStyle, err := GetPrompt(KeyImageStyle, templatesDir)
	if err != nil {
		return nil, err
	}
	return &Builder{role: role, quality: quality, imageStyle: imageStyle}, nil
}

// DefaultBuilder returns a builder over the built-in prompt constants.
func DefaultBuilder() *Builder {
	return &Builder{role: RolePrompt, quality: QualityDirectives, imageStyle: ImageStylePrompt}
}

// BuildTextPrompt renders the full text-generation prompt for the bundle.
// An empty return value means the bundle has no text-like fields and text
// generation should be skipped entirely.
func (b *Builder) BuildTextPrompt(bundle *config.SettingsBundle) string {
	textFields := bundle.TextFields()
	if len(textFields) == 0 {
		return ""
	}

	var blocks []string
	add := func(block string) {
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, strings.TrimSpace(block))
		}
	}

	add(b.role)
	add(languageBlock(bundle.Content))
	if bundle.Keyword != "" {
		add("Primary keyword and topic: " + bundle.Keyword)
	}
	add(brandBlock(bundle.Brand))
	if bundle.Brand.Audience != "" {
		add("Target audience: " + bundle.Brand.Audience)
	}
	if bundle.TypeConfig.AdditionalInstructions != "" {
		add("General instructions for this content type:\n" + bundle.TypeConfig.AdditionalInstructions)
	}
	if bundle.ExtraInstructions != "" {
		add("Instructions for this specific piece, overriding the general instructions where they conflict:\n" + bundle.ExtraInstructions)
	}
	add(formattingBlock(textFields, bundle.Content.Formatting))
	add(fieldBlock(textFields))
	add(outputContractBlock(textFields, bundle.Content.Formatting))
	add(b.quality)

	return strings.Join(blocks, "\n\n")
}

// BuildImagePrompt renders the prompt for one image field. reference maps
// field keys to already-generated text; the builder strips markup and
// appends it as context so the image can match the fresh copy. A nil or
// empty reference map is fine for items without any text yet.
func (b *Builder) BuildImagePrompt(bundle *config.SettingsBundle, field models.FieldSpec, reference map[string]string) string {
	var blocks []string
	add := func(block string) {
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, strings.TrimSpace(block))
		}
	}

	add(fmt.Sprintf("Create a single image for the %q field of website content about %q.", field.Label, bundle.Keyword))
	if field.Description != "" {
		add(field.Description)
	} else {
		add(fmt.Sprintf("Create a visually engaging image that represents %q, suitable for use as the %s.", bundle.Keyword, strings.ToLower(field.Label)))
	}
	if bundle.Brand.Industry != "" {
		add("Industry context: " + bundle.Brand.Industry)
	}
	add(b.imageStyle)
	add(referenceBlock(bundle, reference))

	return strings.Join(blocks, "\n\n")
}

func languageBlock(c types.ContentConfig) string {
	lang := c.Language
	if lang == "" {
		lang = config.DefaultLanguage
	}
	line := "Write all content in " + lang + "."
	if isGerman(lang) {
		switch c.Addressing {
		case "formal":
			line += " Address the reader formally (Sie)."
		case "informal":
			line += " Address the reader informally (du)."
		}
	}
	return line
}

func isGerman(lang string) bool {
	l := strings.ToLower(lang)
	return l == "german" || l == "deutsch" || l == "de"
}

func brandBlock(brand types.BrandConfig) string {
	facts := [][2]string{
		{"Company", brand.CompanyName},
		{"Industry", brand.Industry},
		{"Tone of voice", brand.Tone},
		{"Core values", brand.Values},
		{"Unique selling proposition", brand.USP},
		{"Website", brand.Website},
	}
	var lines []string
	for _, f := range facts {
		if f[1] != "" {
			lines = append(lines, f[0]+": "+f[1])
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "About the company:\n" + strings.Join(lines, "\n")
}

func formattingBlock(textFields []models.FieldSpec, formatting map[string]bool) string {
	hasRichtext := false
	for _, f := range textFields {
		if f.Kind == models.KindRichText {
			hasRichtext = true
			break
		}
	}
	if !hasRichtext {
		return ""
	}
	allowed := allowedElements(formatting)
	if len(allowed) == 0 {
		return ""
	}
	var tags []string
	for _, el := range allowed {
		tags = append(tags, "<"+el+">")
	}
	return "Rich text fields may use only these HTML elements: " + strings.Join(tags, ", ") +
		". Use them to structure the content, for example <h2> headings between sections and <ul> lists for enumerations. No other markup is allowed."
}

func allowedElements(formatting map[string]bool) []string {
	var out []string
	for el, ok := range formatting {
		if ok {
			out = append(out, el)
		}
	}
	sort.Strings(out)
	return out
}

func fieldBlock(textFields []models.FieldSpec) string {
	lines := []string{"Generate the following fields:"}
	for _, f := range textFields {
		line := fmt.Sprintf("- %s (key: %s)", f.Label, f.Key)
		if f.Description != "" {
			line += ": " + f.Description
		}
		if f.WordCount > 0 {
			line += fmt.Sprintf(" Target length: about %d words.", f.WordCount)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func outputContractBlock(textFields []models.FieldSpec, formatting map[string]bool) string {
	var example []string
	for _, f := range textFields {
		example = append(example, fmt.Sprintf("  %q: \"...\"", f.Key))
	}
	rules := []string{
		"- Every key and every value must be a double-quoted JSON string.",
		"- Escape control characters inside values; use \\n for line breaks.",
	}
	if len(allowedElements(formatting)) > 0 {
		rules = append(rules,
			"- Rich text fields may contain only the allowed HTML elements listed above.",
			"- All other fields must be plain text without any markup.")
	} else {
		rules = append(rules, "- Values must be plain text without any markup.")
	}
	return "Return ONLY a single JSON object in exactly this shape, with no text before or after it:\n" +
		"{\n" + strings.Join(example, ",\n") + "\n}\n" +
		"Rules:\n" + strings.Join(rules, "\n")
}

func referenceBlock(bundle *config.SettingsBundle, reference map[string]string) string {
	if len(reference) == 0 {
		return ""
	}
	lines := []string{"For reference only, the text already written for this piece. Do not render any of it inside the image:"}
	emitted := false
	for _, f := range bundle.TextFields() {
		text := StripMarkup(reference[f.Key])
		if text == "" {
			continue
		}
		lines = append(lines, f.Label+": "+text)
		emitted = true
	}
	if !emitted {
		return ""
	}
	return strings.Join(lines, "\n")
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripMarkup flattens rich text to a single plain-text line.
func StripMarkup(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
