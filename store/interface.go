package store

import "github.com/keycontent/keycontent/models"

// ContentStore defines the interface for content item persistence.
// It covers the item CRUD the generation pipeline needs plus the per-item
// metadata channel (keyword, extra instructions, generation timestamp) and
// the featured-image binding.
type ContentStore interface {
	// Initialize configures the store with backend-specific settings such
	// as file path and data format. It must be called before any other
	// store operation.
	Initialize(config map[string]string) error

	// CreateItem adds a new content item to the store. It returns the
	// created item, potentially with store-generated fields, or an error.
	CreateItem(item models.ContentItem) (models.ContentItem, error)

	// GetItem retrieves an item by its unique identifier.
	GetItem(id string) (models.ContentItem, error)

	// UpdateItem modifies an existing item, applying the given updates.
	// The 'updates' map contains field names to their new values. Native
	// text fields are batch-written through a single UpdateItem call.
	UpdateItem(id string, updates map[string]interface{}) (models.ContentItem, error)

	// FindByKeyword returns the item of the given type whose keyword meta
	// matches exactly, regardless of status, or nil when none exists.
	FindByKeyword(contentType, keyword string) (*models.ContentItem, error)

	// SetFeaturedImage binds a stored asset to the item's native
	// featured-image slot.
	SetFeaturedImage(id, assetID string) error

	// GetMeta reads one metadata value for an item. A missing key is not
	// an error; it returns the empty string.
	GetMeta(id, key string) (string, error)

	// SetMeta writes one metadata value for an item.
	SetMeta(id, key, value string) error

	// ListItems retrieves items, optionally filtered and sorted.
	ListItems(filterFn func(models.ContentItem) bool, sortFn func([]models.ContentItem)) ([]models.ContentItem, error)

	// Close releases any resources held by the store, such as file locks.
	Close() error
}

// AssetStore persists binary assets (generated images) and hands back an
// asset ID the content store can bind to items.
type AssetStore interface {
	// Store writes the binary under a name derived from filename, records
	// the owning item and label, and returns the new asset's ID.
	Store(data []byte, itemID, filename, label string) (string, error)
}
