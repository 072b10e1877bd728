package util

import (
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"workconnect/pkg/apierror"
)

// FileExtension cleans a client supplied filename and returns its lowercase
// extension including the dot.
func FileExtension(name string) (string, error) {
	var b strings.Builder
	for _, char := range strings.TrimSpace(name) {
		if unicode.IsControl(char) || unicode.Is(unicode.Cf, char) {
			continue
		}
		b.WriteRune(char)
	}

	cleaned := strings.ReplaceAll(b.String(), `\`, "/")
	cleaned = filepath.Base(cleaned)
	if cleaned == "" || cleaned == "." || cleaned == "/" {
		return "", apierror.New("INVALID_FILENAME", "Invalid file name.", name, http.StatusBadRequest)
	}

	ext := strings.ToLower(filepath.Ext(cleaned))
	if ext == "" || ext == cleaned {
		return "", apierror.New("INVALID_FILENAME", "File name has no extension.", name, http.StatusBadRequest)
	}
	return ext, nil
}
