package fields

import (
	"fmt"

	"github.com/keycontent/keycontent/models"
	"github.com/keycontent/keycontent/types"
)

// EnabledDefault is the merge policy for fields that are absent from the
// saved enabled-map. The policy is an explicit configurable rather than a
// per-call-site default.
type EnabledDefault string

const (
	// DefaultBaseline enables unsaved baseline fields and disables
	// unsaved provider fields. This is the default policy.
	DefaultBaseline EnabledDefault = "baseline"
	// DefaultAll enables every unsaved field.
	DefaultAll EnabledDefault = "all"
	// DefaultNone disables every unsaved field.
	DefaultNone EnabledDefault = "none"
)

// ParseEnabledDefault maps the config string to a policy, falling back to
// DefaultBaseline for the empty string.
func ParseEnabledDefault(s string) (EnabledDefault, error) {
	switch EnabledDefault(s) {
	case "":
		return DefaultBaseline, nil
	case DefaultBaseline, DefaultAll, DefaultNone:
		return EnabledDefault(s), nil
	default:
		return "", fmt.Errorf("unknown enabled-default policy: %q", s)
	}
}

// Registry lists the generatable fields of a content type: the fixed
// baseline set first, then provider groups in provider registration order.
type Registry struct {
	providers []Provider
}

// NewRegistry creates a registry over the given providers. Provider order
// is registration order and determines field order after the baseline.
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{providers: providers}
}

// baselineFields returns the native fields every content type carries.
func baselineFields() []models.FieldSpec {
	return []models.FieldSpec{
		{Key: models.FieldTitle, Label: "Title", Kind: models.KindText, Source: models.SourceNative},
		{Key: models.FieldBody, Label: "Body", Kind: models.KindRichText, Source: models.SourceNative},
		{Key: models.FieldExcerpt, Label: "Excerpt", Kind: models.KindText, Source: models.SourceNative},
		{Key: models.FieldFeaturedImage, Label: "Featured image", Kind: models.KindImage, Source: models.SourceNative},
	}
}

// ListFields returns every field of the content type, baseline first, then
// provider groups in registration order.
func (r *Registry) ListFields(contentType string) []models.FieldSpec {
	out := baselineFields()
	for _, p := range r.providers {
		for _, g := range p.ListGroups(contentType) {
			out = append(out, g.Fields...)
		}
	}
	return out
}

// EnabledFields intersects the full field list with the saved enabled-map.
// Fields absent from the map fall back to the given policy. An empty
// resulting set aborts generation before any network call.
func (r *Registry) EnabledFields(contentType string, saved map[string]bool, policy EnabledDefault) ([]models.FieldSpec, error) {
	if policy == "" {
		policy = DefaultBaseline
	}
	var out []models.FieldSpec
	for _, spec := range r.ListFields(contentType) {
		enabled, explicit := saved[spec.Key]
		if !explicit {
			switch policy {
			case DefaultAll:
				enabled = true
			case DefaultNone:
				enabled = false
			default:
				enabled = spec.Source == models.SourceNative
			}
		}
		if !enabled {
			continue
		}
		spec.Enabled = true
		out = append(out, spec)
	}
	if len(out) == 0 {
		return nil, types.NewPipelineError(types.CodeNoFields, fmt.Sprintf("no fields enabled for type %q", contentType))
	}
	return out, nil
}

// WriteField dispatches a provider-field write to the provider that owns
// the key. Native fields are written by the caller through the content
// store, not here.
func (r *Registry) WriteField(contentType, key, value, itemID string) error {
	for _, p := range r.providers {
		for _, g := range p.ListGroups(contentType) {
			for _, f := range g.Fields {
				if f.Key == key {
					return p.Write(key, value, itemID)
				}
			}
		}
	}
	return types.NewPipelineError(types.CodeWrite, fmt.Sprintf("no provider owns field %q for type %q", key, contentType))
}

// ReadField reads a provider-field value through its owning provider.
func (r *Registry) ReadField(contentType, key, itemID string) (string, error) {
	for _, p := range r.providers {
		for _, g := range p.ListGroups(contentType) {
			for _, f := range g.Fields {
				if f.Key == key {
					return p.Read(key, itemID)
				}
			}
		}
	}
	return "", fmt.Errorf("no provider owns field %q for type %q", key, contentType)
}
