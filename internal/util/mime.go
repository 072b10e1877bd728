package util

import (
	"net/http"
	"slices"
	"strings"
)

// imageExtensions lists the upload formats accepted and the extensions each may carry.
var imageExtensions = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

// DetectMIME sniffs the content type from the first bytes of a file.
func DetectMIME(head []byte) string {
	if len(head) > 512 {
		head = head[:512]
	}
	mimeType := http.DetectContentType(head)
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.TrimSpace(mimeType)
}

func IsAllowedImageMIME(mimeType string) bool {
	_, ok := imageExtensions[strings.ToLower(strings.TrimSpace(mimeType))]
	return ok
}

// ExtensionMatchesMIME reports whether extension is a valid name for mimeType.
func ExtensionMatchesMIME(extension string, mimeType string) bool {
	allowed := imageExtensions[strings.ToLower(strings.TrimSpace(mimeType))]
	return slices.Contains(allowed, strings.ToLower(strings.TrimSpace(extension)))
}

// CanonicalExtension is the extension stored files get for mimeType.
func CanonicalExtension(mimeType string) string {
	allowed := imageExtensions[strings.ToLower(strings.TrimSpace(mimeType))]
	if len(allowed) == 0 {
		return ""
	}
	return allowed[0]
}
