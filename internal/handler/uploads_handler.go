package handler

import (
	"io/fs"
	"net/http"
	"os"
	"strings"
)

type fileOpener interface {
	Open(relPath string) (*os.File, fs.FileInfo, error)
}

// UploadsHandler serves stored pictures and logos. Directories are never listed.
type UploadsHandler struct {
	files  fileOpener
	prefix string
}

func NewUploadsHandler(files fileOpener, prefix string) *UploadsHandler {
	return &UploadsHandler{files: files, prefix: prefix}
}

func (h *UploadsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, h.prefix)
	if rel == "" || strings.HasSuffix(rel, "/") {
		http.NotFound(w, r)
		return
	}

	f, info, err := h.files.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
