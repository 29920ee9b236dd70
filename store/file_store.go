package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v3"

	"github.com/keycontent/keycontent/models"
)

const (
	defaultDataFile   = "content.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	checksumSuffix    = ".checksum"
)

// FileContentStore implements the ContentStore interface using a file
// backend. It supports JSON and YAML formats and uses file-level locking.
type FileContentStore struct {
	filePath string
	items    map[string]models.ContentItem
	flk      *flock.Flock
	format   string
}

// NewFileContentStore creates a new instance of FileContentStore.
// It does not initialize the store; Initialize must be called separately.
func NewFileContentStore() *FileContentStore {
	return &FileContentStore{
		items: make(map[string]models.ContentItem),
	}
}

// Initialize configures the FileContentStore. It expects a 'dataFile' key in
// the config map specifying the path to the data file, loads existing items
// if the file exists, and establishes a file lock.
func (s *FileContentStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s.flk = flock.New(s.filePath)

	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	if !locked {
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("failed to acquire blocking initial lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	s.items = make(map[string]models.ContentItem)
	return s.loadItemsFromFileInternal()
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadItemsFromFileInternal reads items from the file, verifies the
// checksum, and unmarshals. Assumes the lock is held.
func (s *FileContentStore) loadItemsFromFileInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.items = make(map[string]models.ContentItem)
			_ = os.Remove(checksumFilePath)
			f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644)
			if createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, createErr)
			}
			_ = f.Close()
			_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if _, err := os.Stat(checksumFilePath); err == nil {
		expectedChecksumBytes, readErr := os.ReadFile(checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w - data file might be corrupt or tampered", checksumFilePath, readErr)
		}
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		actualChecksum := calculateChecksum(data)
		if actualChecksum != expectedChecksum {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expectedChecksum, actualChecksum)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}

	if len(data) == 0 {
		_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
		s.items = make(map[string]models.ContentItem)
		return nil
	}

	var list models.ContentList
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", s.filePath, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	s.items = make(map[string]models.ContentItem, len(list.Items))
	for _, item := range list.Items {
		s.items[item.ID] = item
	}
	return nil
}

// saveItemsToFileInternal writes items to file, then writes its checksum.
// Uses a temp-file rename so readers never see a partial write.
func (s *FileContentStore) saveItemsToFileInternal() error {
	list := models.ContentList{
		Items:      make([]models.ContentItem, 0, len(s.items)),
		TotalCount: len(s.items),
	}
	for _, item := range s.items {
		list.Items = append(list.Items, item)
	}

	var marshaledData []byte
	var err error
	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(list, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(list)
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal items to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = os.Remove(tempFilePath) }()
	defer func() { _ = os.Remove(tempChecksumFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}
	if err := os.WriteFile(tempChecksumFilePath, []byte(calculateChecksum(marshaledData)), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}
	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := os.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("CRITICAL: data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}
	return nil
}

// generateID creates a new universally unique identifier string.
func generateID() string {
	return uuid.NewString()
}

// CreateItem adds a new content item to the store, setting its ID and
// timestamps and validating before persisting.
func (s *FileContentStore) CreateItem(item models.ContentItem) (models.ContentItem, error) {
	if err := s.flk.Lock(); err != nil {
		return models.ContentItem{}, fmt.Errorf("could not lock file for create: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadItemsFromFileInternal(); err != nil {
		return models.ContentItem{}, fmt.Errorf("failed to reload items before create: %w", err)
	}

	if item.ID == "" {
		item.ID = generateID()
	} else if _, exists := s.items[item.ID]; exists {
		return models.ContentItem{}, fmt.Errorf("content item with ID '%s' already exists", item.ID)
	}

	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Meta == nil {
		item.Meta = map[string]string{}
	}
	if item.Status == "" {
		item.Status = models.StatusDraft
	}

	if err := models.ValidateStruct(item); err != nil {
		return models.ContentItem{}, fmt.Errorf("validation failed for new item: %w", err)
	}

	s.items[item.ID] = item

	if err := s.saveItemsToFileInternal(); err != nil {
		_ = s.loadItemsFromFileInternal()
		return models.ContentItem{}, fmt.Errorf("failed to save new item: %w", err)
	}
	return item, nil
}

// GetItem retrieves an item by its unique identifier.
func (s *FileContentStore) GetItem(id string) (models.ContentItem, error) {
	if err := s.flk.Lock(); err != nil {
		return models.ContentItem{}, fmt.Errorf("failed to acquire lock for GetItem: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadItemsFromFileInternal(); err != nil {
		return models.ContentItem{}, fmt.Errorf("failed to load items for GetItem: %w", err)
	}

	item, ok := s.items[id]
	if !ok {
		return models.ContentItem{}, fmt.Errorf("content item with ID %s not found", id)
	}
	return item, nil
}

// fieldNameMapping maps JSON field names to struct field names.
var fieldNameMapping = map[string]string{
	"id":              "ID",
	"type":            "Type",
	"title":           "Title",
	"body":            "Body",
	"excerpt":         "Excerpt",
	"status":          "Status",
	"featuredImageId": "FeaturedImageID",
	"createdAt":       "CreatedAt",
	"updatedAt":       "UpdatedAt",
}

// UpdateItem modifies an existing item by applying the updates map.
func (s *FileContentStore) UpdateItem(id string, updates map[string]interface{}) (models.ContentItem, error) {
	if err := s.flk.Lock(); err != nil {
		return models.ContentItem{}, fmt.Errorf("could not lock file for update: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadItemsFromFileInternal(); err != nil {
		return models.ContentItem{}, fmt.Errorf("failed to reload items before update: %w", err)
	}

	item, exists := s.items[id]
	if !exists {
		return models.ContentItem{}, fmt.Errorf("content item with ID '%s' not found", id)
	}
	original := item

	now := time.Now().UTC()
	item.UpdatedAt = now

	for key, value := range updates {
		fieldName, ok := fieldNameMapping[key]
		if !ok {
			if len(key) > 0 {
				fieldName = strings.ToUpper(key[:1]) + key[1:]
			}
		}
		field := reflect.ValueOf(&item).Elem().FieldByName(fieldName)
		if field.IsValid() && field.CanSet() {
			val := reflect.ValueOf(value)
			if field.Type() != val.Type() {
				converted, err := convertType(value, field.Type())
				if err != nil {
					return models.ContentItem{}, fmt.Errorf("type conversion error for field %s: %w", key, err)
				}
				val = converted
			}
			field.Set(val)
		}
	}

	if err := models.ValidateStruct(item); err != nil {
		return models.ContentItem{}, fmt.Errorf("validation failed for updated item: %w", err)
	}

	s.items[id] = item

	if err := s.saveItemsToFileInternal(); err != nil {
		s.items[id] = original
		return models.ContentItem{}, fmt.Errorf("failed to save updated item: %w", err)
	}
	return item, nil
}

// convertType attempts to convert an interface value to a target type.
// This is a simplified converter for the types used in ContentItem.
func convertType(value interface{}, targetType reflect.Type) (reflect.Value, error) {
	if valueStr, ok := value.(string); ok {
		switch targetType {
		case reflect.TypeOf(models.ContentStatus("")):
			return reflect.ValueOf(models.ContentStatus(valueStr)), nil
		}
	}
	return reflect.Value{}, fmt.Errorf("unsupported type conversion from %T to %v", value, targetType)
}

// FindByKeyword returns the item of the given type whose keyword meta
// matches exactly, regardless of status, or nil when none exists.
func (s *FileContentStore) FindByKeyword(contentType, keyword string) (*models.ContentItem, error) {
	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for FindByKeyword: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadItemsFromFileInternal(); err != nil {
		return nil, fmt.Errorf("failed to load items for FindByKeyword: %w", err)
	}

	for _, item := range s.items {
		if item.Type == contentType && item.Meta[models.MetaKeyword] == keyword {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

// SetFeaturedImage binds a stored asset to the item's featured-image slot.
func (s *FileContentStore) SetFeaturedImage(id, assetID string) error {
	_, err := s.UpdateItem(id, map[string]interface{}{"featuredImageId": assetID})
	return err
}

// GetMeta reads one metadata value. A missing key returns the empty string.
func (s *FileContentStore) GetMeta(id, key string) (string, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return "", err
	}
	return item.Meta[key], nil
}

// SetMeta writes one metadata value for an item.
func (s *FileContentStore) SetMeta(id, key, value string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock file for SetMeta: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadItemsFromFileInternal(); err != nil {
		return fmt.Errorf("failed to reload items before SetMeta: %w", err)
	}

	item, exists := s.items[id]
	if !exists {
		return fmt.Errorf("content item with ID '%s' not found", id)
	}
	if item.Meta == nil {
		item.Meta = map[string]string{}
	}
	item.Meta[key] = value
	item.UpdatedAt = time.Now().UTC()
	s.items[id] = item

	if err := s.saveItemsToFileInternal(); err != nil {
		_ = s.loadItemsFromFileInternal()
		return fmt.Errorf("failed to save after SetMeta: %w", err)
	}
	return nil
}

// ListItems retrieves items, optionally filtered and sorted.
func (s *FileContentStore) ListItems(filterFn func(models.ContentItem) bool, sortFn func([]models.ContentItem)) ([]models.ContentItem, error) {
	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for ListItems: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadItemsFromFileInternal(); err != nil {
		return nil, fmt.Errorf("failed to load items for ListItems: %w", err)
	}

	list := make([]models.ContentItem, 0, len(s.items))
	for _, item := range s.items {
		if filterFn == nil || filterFn(item) {
			list = append(list, item)
		}
	}
	if sortFn != nil {
		sortFn(list)
	}
	return list, nil
}

// Close releases the file lock held by the store. flock.Unlock is
// idempotent and safe to call when the lock is not held.
func (s *FileContentStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
