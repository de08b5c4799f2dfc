package intake

// Category classifies an evidence upload. The category decides the size
// ceiling, whether compression is attempted, and the storage subdirectory.
type Category string

const (
	CategorySignature     Category = "signature"
	CategoryDocumentImage Category = "document_image"
	CategoryAudio         Category = "audio"
)

// Valid reports whether c is a known evidence category.
func (c Category) Valid() bool {
	switch c {
	case CategorySignature, CategoryDocumentImage, CategoryAudio:
		return true
	}
	return false
}

// Dir is the storage subdirectory for the category. The names match the
// on-disk layout used in production deployments.
func (c Category) Dir() string {
	switch c {
	case CategorySignature:
		return "firmas"
	case CategoryDocumentImage:
		return "documentos"
	case CategoryAudio:
		return "audios"
	}
	return ""
}

// Compressible reports whether oversized uploads of this category may be
// recompressed. Audio is accepted as-is: its fidelity cannot be locally
// verified, so no transformation is attempted.
func (c Category) Compressible() bool {
	return c == CategoryDocumentImage
}
