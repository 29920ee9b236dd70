// Package intake turns keywords into content items without ever creating
// duplicates. It runs before orchestration so every keyword has exactly one
// item to generate into.
package intake

import (
	"fmt"
	"strings"

	"github.com/keycontent/keycontent/models"
	"github.com/keycontent/keycontent/store"
	"github.com/keycontent/keycontent/types"
)

// Service creates or finds the item for a keyword within one content type.
type Service struct {
	items       store.ContentStore
	contentType string
}

// NewService builds an intake service bound to the configured content type.
func NewService(items store.ContentStore, contentType string) *Service {
	return &Service{items: items, contentType: contentType}
}

// LoadKeyword resolves a keyword to its content item. The keyword is
// trimmed but case is preserved; lookup is an exact match within the
// service's content type regardless of status. Repeated calls with the
// same keyword never create a second item. When autoPublish is set, a
// found draft is promoted to published; a new item is created published
// instead of draft.
func (s *Service) LoadKeyword(keyword string, autoPublish bool, extraInstructions string) (models.IntakeResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return models.IntakeResult{}, types.NewPipelineError(types.CodeMissingKeyword, "keyword must not be empty")
	}

	existing, err := s.items.FindByKeyword(s.contentType, keyword)
	if err != nil {
		return models.IntakeResult{}, fmt.Errorf("keyword lookup failed: %w", err)
	}
	if existing != nil {
		result := models.IntakeResult{ItemID: existing.ID, Created: false}
		if autoPublish && existing.Status == models.StatusDraft {
			if _, err := s.items.UpdateItem(existing.ID, map[string]interface{}{
				"status": string(models.StatusPublished),
			}); err != nil {
				return models.IntakeResult{}, fmt.Errorf("publish of existing item failed: %w", err)
			}
			result.Published = true
		}
		return result, nil
	}

	status := models.StatusDraft
	if autoPublish {
		status = models.StatusPublished
	}
	meta := map[string]string{models.MetaKeyword: keyword}
	if instructions := strings.TrimSpace(extraInstructions); instructions != "" {
		meta[models.MetaExtraInstructions] = instructions
	}
	item, err := s.items.CreateItem(models.ContentItem{
		Type:   s.contentType,
		Title:  keyword,
		Status: status,
		Meta:   meta,
	})
	if err != nil {
		return models.IntakeResult{}, fmt.Errorf("item creation failed: %w", err)
	}
	return models.IntakeResult{
		ItemID:    item.ID,
		Created:   true,
		Published: autoPublish,
	}, nil
}
