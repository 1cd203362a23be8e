package file

import (
	"fmt"
	"mime"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"campus-portal-backend/internal/apperror"
)

// MediaKind names what an upload is attached to.
type MediaKind string

const (
	KindResume MediaKind = "resume"
	KindLogo   MediaKind = "logo"
)

var allowedTypes = map[MediaKind][]string{
	KindResume: {"application/pdf"},
	KindLogo:   {"image/jpeg", "image/jpg", "image/png"},
}

// ObjectPrefix is where every object of kind belonging to profileID is stored.
func ObjectPrefix(kind MediaKind, profileID uuid.UUID) string {
	return fmt.Sprintf("%ss/%s/", kind, profileID)
}

// ValidateUpload checks size, the declared content type and the sniffed content type.
// It returns the content type and extension to store the object with.
func ValidateUpload(kind MediaKind, declared string, data []byte, maxBytes int64) (string, string, error) {
	allowed, ok := allowedTypes[kind]
	if !ok {
		return "", "", apperror.Validation(fmt.Sprintf("Unknown upload kind %q", kind), nil)
	}
	if len(data) == 0 {
		return "", "", apperror.Validation("Please upload a file", nil)
	}
	if int64(len(data)) > maxBytes {
		return "", "", apperror.Validation(fmt.Sprintf("File size cannot exceed %dMB", maxBytes>>20), nil)
	}

	declaredType := normalizeType(declared)
	if !slices.Contains(allowed, declaredType) {
		return "", "", apperror.Validation(typeMessage(kind), nil)
	}

	detected := mimetype.Detect(data)
	for _, t := range allowed {
		if detected.Is(t) {
			return detected.String(), detected.Extension(), nil
		}
	}
	return "", "", apperror.Validation(typeMessage(kind), fmt.Errorf("content detected as %s", detected.String()))
}

func normalizeType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
