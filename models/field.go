package models

// FieldKind classifies what a generatable field holds.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindRichText FieldKind = "richtext"
	KindImage    FieldKind = "image"
)

// FieldSource identifies which side of the field registry a field comes from.
type FieldSource string

const (
	SourceNative   FieldSource = "native"
	SourceProvider FieldSource = "provider"
)

// Baseline field keys. These are always present in the registry for every
// content type, in this order, ahead of any provider fields.
const (
	FieldTitle         = "title"
	FieldBody          = "body"
	FieldExcerpt       = "excerpt"
	FieldFeaturedImage = "featured_image"
)

// ImageSize and ImageQuality are the image-generation enums forwarded to the
// API. "auto" lets the provider pick.
type ImageSize string

const (
	SizeAuto      ImageSize = "auto"
	SizeSquare    ImageSize = "1024x1024"
	SizeLandscape ImageSize = "1536x1024"
	SizePortrait  ImageSize = "1024x1536"
)

type ImageQuality string

const (
	QualityAuto   ImageQuality = "auto"
	QualityLow    ImageQuality = "low"
	QualityMedium ImageQuality = "medium"
	QualityHigh   ImageQuality = "high"
)

// FieldSpec describes one generatable field of a content type.
// WordCount is meaningful for text/richtext kinds, Size and Quality for
// image kinds. The orchestrator treats specs as read-only.
type FieldSpec struct {
	Key         string       `json:"key" validate:"required,min=1"`
	Label       string       `json:"label" validate:"required,min=1"`
	Kind        FieldKind    `json:"kind" validate:"required,oneof=text richtext image"`
	Source      FieldSource  `json:"source" validate:"required,oneof=native provider"`
	Enabled     bool         `json:"enabled"`
	Description string       `json:"description,omitempty"`
	WordCount   int          `json:"wordCount,omitempty" validate:"omitempty,min=0"`
	Size        ImageSize    `json:"size,omitempty"`
	Quality     ImageQuality `json:"quality,omitempty"`
}

// IsImage reports whether the field is generated through the image endpoint.
func (f FieldSpec) IsImage() bool { return f.Kind == KindImage }

// IsTextLike reports whether the field participates in the JSON output
// contract of the text prompt.
func (f FieldSpec) IsTextLike() bool { return f.Kind == KindText || f.Kind == KindRichText }
