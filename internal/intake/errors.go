package intake

import (
	"errors"
	"fmt"
)

var (
	// ErrPayloadTooLarge marks size-ceiling rejections. Match with
	// errors.Is; the concrete *SizeError carries category and limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrUnsupportedCategory marks uploads with an unknown evidence category.
	ErrUnsupportedCategory = errors.New("unsupported evidence category")

	// ErrStorageWrite marks operational blob-store failures. These are
	// logged with full context and surfaced generically to clients.
	ErrStorageWrite = errors.New("evidence storage write failed")
)

// SizeError reports a payload that exceeds its category ceiling, with enough
// detail for the client to self-correct.
type SizeError struct {
	Category Category
	Limit    int64
	Size     int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s payload of %d bytes exceeds limit of %d bytes", e.Category, e.Size, e.Limit)
}

func (e *SizeError) Unwrap() error { return ErrPayloadTooLarge }
