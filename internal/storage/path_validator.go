package storage

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"workconnect/pkg/apierror"
)

// PathValidator keeps relative upload paths inside the upload root.
type PathValidator struct {
	rootAbs string
}

func NewPathValidator(root string) (*PathValidator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("upload root cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}

	return &PathValidator{rootAbs: rootAbs}, nil
}

func (v *PathValidator) RootAbs() string {
	return v.rootAbs
}

// ResolvePath maps a slash-separated relative path to an absolute file path.
// The root itself is not a valid target.
func (v *PathValidator) ResolvePath(relPath string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(relPath), `\`, "/")
	normalized = strings.TrimPrefix(normalized, "/")
	if normalized == "" {
		return "", apierror.New("INVALID_PATH", "upload path is empty", relPath, http.StatusBadRequest)
	}

	if hasControlCharacters(normalized) {
		return "", apierror.New("INVALID_PATH", "upload path contains invalid characters", relPath, http.StatusBadRequest)
	}

	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", apierror.New("PATH_TRAVERSAL", "path traversal attempt detected", relPath, http.StatusForbidden)
		}
	}

	resolved := filepath.Join(v.rootAbs, filepath.Clean(normalized))
	if resolved == v.rootAbs || !isWithinRoot(v.rootAbs, resolved) {
		return "", apierror.New("PATH_TRAVERSAL", "resolved path is outside upload root", relPath, http.StatusForbidden)
	}

	return resolved, nil
}

func hasControlCharacters(value string) bool {
	for _, char := range value {
		if char == 0 || unicode.IsControl(char) {
			return true
		}
	}
	return false
}

func isWithinRoot(rootAbs string, candidateAbs string) bool {
	return strings.HasPrefix(candidateAbs, rootAbs+string(filepath.Separator))
}
