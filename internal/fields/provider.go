// Package fields enumerates the content-bearing fields of a content type,
// merging a fixed baseline set with provider-supplied custom field groups.
package fields

import (
	"fmt"
	"strings"

	"github.com/keycontent/keycontent/models"
	"github.com/keycontent/keycontent/store"
	"github.com/keycontent/keycontent/types"
)

// Group is one provider-registered set of custom fields.
type Group struct {
	Key    string
	Label  string
	Fields []models.FieldSpec
}

// Provider supplies custom field groups for content types and owns the
// read/write path for their values.
type Provider interface {
	// ListGroups returns the groups attached to the given content type,
	// in registration order.
	ListGroups(contentType string) []Group

	// Read returns the current value of a provider field on an item.
	Read(key, itemID string) (string, error)

	// Write stores a value into a provider field on an item.
	Write(key, value, itemID string) error
}

// metaFieldPrefix namespaces provider field values inside item metadata.
const metaFieldPrefix = "field_"

// ConfigProvider is a Provider whose groups are declared in configuration
// and whose values are persisted as namespaced item metadata.
type ConfigProvider struct {
	groups []types.ProviderGroupConfig
	meta   store.ContentStore
}

// NewConfigProvider builds a provider from declared groups. Values are
// read and written through the given content store's metadata channel.
func NewConfigProvider(groups []types.ProviderGroupConfig, meta store.ContentStore) *ConfigProvider {
	return &ConfigProvider{groups: groups, meta: meta}
}

// ListGroups returns the configured groups that include contentType.
func (p *ConfigProvider) ListGroups(contentType string) []Group {
	var out []Group
	for _, g := range p.groups {
		if !containsType(g.Types, contentType) {
			continue
		}
		group := Group{Key: g.Key, Label: g.Label}
		for _, f := range g.Fields {
			group.Fields = append(group.Fields, models.FieldSpec{
				Key:    f.Key,
				Label:  f.Label,
				Kind:   models.FieldKind(f.Kind),
				Source: models.SourceProvider,
			})
		}
		out = append(out, group)
	}
	return out
}

// Read returns the stored value of a provider field.
func (p *ConfigProvider) Read(key, itemID string) (string, error) {
	return p.meta.GetMeta(itemID, metaFieldPrefix+key)
}

// Write stores a provider field value on the item.
func (p *ConfigProvider) Write(key, value, itemID string) error {
	if err := p.meta.SetMeta(itemID, metaFieldPrefix+key, value); err != nil {
		return types.WrapPipelineError(types.CodeWrite, fmt.Sprintf("provider rejected write to field %q", key), err)
	}
	return nil
}

func containsType(list []string, contentType string) bool {
	for _, t := range list {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}
