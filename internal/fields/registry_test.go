package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keycontent/keycontent/models"
	"github.com/keycontent/keycontent/types"
)

// stubProvider returns fixed groups and records writes.
type stubProvider struct {
	groups []Group
	writes map[string]string
}

func (s *stubProvider) ListGroups(contentType string) []Group { return s.groups }

func (s *stubProvider) Read(key, itemID string) (string, error) { return s.writes[key], nil }

func (s *stubProvider) Write(key, value, itemID string) error {
	if s.writes == nil {
		s.writes = map[string]string{}
	}
	s.writes[key] = value
	return nil
}

func seoProvider() *stubProvider {
	return &stubProvider{groups: []Group{{
		Key:   "seo",
		Label: "SEO",
		Fields: []models.FieldSpec{
			{Key: "seo_title", Label: "SEO Title", Kind: models.KindText, Source: models.SourceProvider},
			{Key: "og_image", Label: "Social image", Kind: models.KindImage, Source: models.SourceProvider},
		},
	}}}
}

func TestListFields_OrderIsBaselineThenProviders(t *testing.T) {
	reg := NewRegistry(seoProvider())
	specs := reg.ListFields("post")

	var keys []string
	for _, s := range specs {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{
		models.FieldTitle, models.FieldBody, models.FieldExcerpt, models.FieldFeaturedImage,
		"seo_title", "og_image",
	}, keys)
}

func TestEnabledFields_MergePolicies(t *testing.T) {
	reg := NewRegistry(seoProvider())
	saved := map[string]bool{"excerpt": false, "seo_title": true}

	tests := []struct {
		name   string
		policy EnabledDefault
		want   []string
	}{
		{
			name:   "baseline default: unsaved baseline on, unsaved provider off",
			policy: DefaultBaseline,
			want:   []string{"title", "body", "featured_image", "seo_title"},
		},
		{
			name:   "all default: everything unsaved is on",
			policy: DefaultAll,
			want:   []string{"title", "body", "featured_image", "seo_title", "og_image"},
		},
		{
			name:   "none default: only explicit saves are on",
			policy: DefaultNone,
			want:   []string{"seo_title"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			specs, err := reg.EnabledFields("post", saved, tc.policy)
			require.NoError(t, err)
			var keys []string
			for _, s := range specs {
				keys = append(keys, s.Key)
				assert.True(t, s.Enabled)
			}
			assert.Equal(t, tc.want, keys)
		})
	}
}

func TestEnabledFields_EmptySetFails(t *testing.T) {
	reg := NewRegistry()
	saved := map[string]bool{
		"title": false, "body": false, "excerpt": false, "featured_image": false,
	}
	_, err := reg.EnabledFields("post", saved, DefaultBaseline)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.CodeNoFields))
	assert.True(t, types.IsConfigurationError(err))
}

func TestWriteField_DispatchesToOwningProvider(t *testing.T) {
	p := seoProvider()
	reg := NewRegistry(p)

	require.NoError(t, reg.WriteField("post", "seo_title", "Buy widgets", "item-1"))
	assert.Equal(t, "Buy widgets", p.writes["seo_title"])

	err := reg.WriteField("post", "unknown_field", "v", "item-1")
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.CodeWrite))
}

func TestParseEnabledDefault(t *testing.T) {
	got, err := ParseEnabledDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseline, got)

	_, err = ParseEnabledDefault("sometimes")
	require.Error(t, err)
}
