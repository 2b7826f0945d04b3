package file

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
)

// Storage keeps file contents addressed by a relative path.
// Writes overwrite, so writing the same path twice leaves one object.
type Storage interface {
	// Write stores data at path, replacing any previous content.
	Write(ctx context.Context, path string, data []byte) error
	// Read returns the content at path or ErrFileNotFound.
	Read(ctx context.Context, path string) ([]byte, error)
	// Exists reports whether path holds a file.
	Exists(ctx context.Context, path string) bool
	// Delete removes the file at path or returns ErrFileNotFound.
	Delete(ctx context.Context, path string) error
}

var imageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// DetectMIMEType sniffs the content type of data.
// Returns "application/octet-stream" when nothing more specific matches.
func DetectMIMEType(data []byte) string {
	mimeType := http.DetectContentType(data)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// MIMETypeByName guesses the content type from the extension of name.
// Falls back to sniffing data when the extension is unknown.
func MIMETypeByName(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".txt":
		return "text/plain"
	case ".json":
		return "application/json"
	case ".pdf":
		return "application/pdf"
	}
	return DetectMIMEType(data)
}

// IsImageMIMEType reports whether mimeType is a raster image type.
func IsImageMIMEType(mimeType string) bool {
	return imageMIMETypes[strings.ToLower(mimeType)]
}

// SanitizeFilename removes directory components and unsafe characters.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filepath.Clean(strings.ReplaceAll(filename, "\\", "/")))
	if filename == "." || filename == "/" || filename == ".." {
		return ""
	}

	var b strings.Builder
	for _, r := range filename {
		switch {
		case r < 0x20, r == 0x7f:
			continue
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
