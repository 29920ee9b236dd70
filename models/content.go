package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ContentStatus represents the publication status of a content item.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
)

// Meta keys used on content items. The keyword is the mandatory subject of
// generation; the timestamp is written only after a fully successful run.
const (
	MetaKeyword           = "keyword"
	MetaExtraInstructions = "extra_instructions"
	MetaLastGeneratedAt   = "last_generated_at"
)

// ContentItem is an addressable unit of content (the post analog).
// Generated text lands in Title/Body/Excerpt; provider fields and the
// keyword/instruction metadata live in Meta.
type ContentItem struct {
	ID              string            `json:"id" validate:"required,uuid4"`
	Type            string            `json:"type" validate:"required,min=1"`
	Title           string            `json:"title"`
	Body            string            `json:"body,omitempty"`
	Excerpt         string            `json:"excerpt,omitempty"`
	Status          ContentStatus     `json:"status" validate:"required,oneof=draft published"`
	FeaturedImageID string            `json:"featuredImageId,omitempty"`
	Meta            map[string]string `json:"meta,omitempty"`
	CreatedAt       time.Time         `json:"createdAt" validate:"required"`
	UpdatedAt       time.Time         `json:"updatedAt" validate:"required"`
}

// Keyword returns the generation keyword stored on the item, if any.
func (c *ContentItem) Keyword() string {
	return strings.TrimSpace(c.Meta[MetaKeyword])
}

// ContentList is the persisted collection shape for the file store.
type ContentList struct {
	Items      []ContentItem `json:"items" validate:"dive"`
	TotalCount int           `json:"totalCount"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// NewContentItem creates an item with timestamps and an initialized meta map.
func NewContentItem(id, contentType, title string, status ContentStatus) *ContentItem {
	now := time.Now().UTC()
	return &ContentItem{
		ID:        id,
		Type:      contentType,
		Title:     title,
		Status:    status,
		Meta:      map[string]string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
