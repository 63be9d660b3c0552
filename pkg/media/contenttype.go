package media

import (
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// imageTypes covers the formats the share picker advertises.
// The system MIME table is consulted for anything else.
var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".avif": "image/avif",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// extensions maps a content type back to a file extension for saved images
var extensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/bmp":     ".bmp",
	"image/svg+xml": ".svg",
	"image/x-icon":  ".ico",
	"image/avif":    ".avif",
	"image/tiff":    ".tiff",
}

// ContentTypeFor returns the declared content type of a file, judged by its
// extension the way a browser file picker does. Unknown extensions yield
// application/octet-stream.
func ContentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := imageTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		if base, _, err := mime.ParseMediaType(ct); err == nil {
			return base
		}
		return ct
	}
	return "application/octet-stream"
}

// ExtensionFor returns a file extension for a content type
func ExtensionFor(contentType string) string {
	if ext, ok := extensions[strings.ToLower(contentType)]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// IsImagePath reports whether a path looks like an image file
func IsImagePath(path string) bool {
	return strings.HasPrefix(ContentTypeFor(path), "image/")
}

// ListImages returns the image files directly inside dir, skipping hidden files
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if IsImagePath(e.Name()) {
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	return images, nil
}
