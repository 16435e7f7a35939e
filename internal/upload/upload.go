// Package upload pre-validates screenshot images before they are handed to
// the external object store. The store itself is not ours; only the
// gatekeeping is.
package upload

import (
	"errors"
	"fmt"
	"net/http"
)

// MaxSize is the largest accepted image payload.
const MaxSize = 2 << 20 // 2MB

var (
	ErrTooLarge        = errors.New("upload: image exceeds size limit")
	ErrUnsupportedType = errors.New("upload: unsupported image type")
)

var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// Validate checks size and sniffed content type. The declared Content-Type
// header is ignored; only the bytes decide.
func Validate(data []byte) error {
	if len(data) > MaxSize {
		return fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	contentType := http.DetectContentType(data)
	if !allowedTypes[contentType] {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	return nil
}
