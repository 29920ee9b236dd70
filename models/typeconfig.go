package models

// FieldSettings carries the per-field tuning a site admin saves for one
// content type: whether the field generates at all, prompt guidance, target
// length for text fields and size/quality for image fields.
type FieldSettings struct {
	Enabled     *bool        `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	WordCount   int          `json:"wordCount,omitempty" yaml:"wordCount,omitempty" validate:"omitempty,min=0"`
	Size        ImageSize    `json:"size,omitempty" yaml:"size,omitempty"`
	Quality     ImageQuality `json:"quality,omitempty" yaml:"quality,omitempty"`
}

// TypeConfig is the type-level generation configuration, keyed by field.
// It is a typed map validated once at load time, never an opaque blob
// re-decoded ad hoc.
type TypeConfig struct {
	AdditionalInstructions string                   `json:"additionalInstructions,omitempty" yaml:"additionalInstructions,omitempty"`
	Fields                 map[string]FieldSettings `json:"fields,omitempty" yaml:"fields,omitempty" validate:"dive"`
}

// EnabledMap projects the saved per-field enabled flags. Fields without an
// explicit flag are absent from the map; the registry's merge policy decides
// their default.
func (tc TypeConfig) EnabledMap() map[string]bool {
	m := make(map[string]bool, len(tc.Fields))
	for key, fs := range tc.Fields {
		if fs.Enabled != nil {
			m[key] = *fs.Enabled
		}
	}
	return m
}

// Apply overlays the saved settings for spec.Key onto spec and returns it.
// Word counts apply only to text-like fields, size/quality only to images.
func (tc TypeConfig) Apply(spec FieldSpec) FieldSpec {
	fs, ok := tc.Fields[spec.Key]
	if !ok {
		return spec
	}
	if fs.Description != "" {
		spec.Description = fs.Description
	}
	if spec.IsTextLike() && fs.WordCount > 0 {
		spec.WordCount = fs.WordCount
	}
	if spec.IsImage() {
		if fs.Size != "" {
			spec.Size = fs.Size
		}
		if fs.Quality != "" {
			spec.Quality = fs.Quality
		}
	}
	return spec
}
