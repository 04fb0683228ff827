// Package mimetype maps file extensions to MIME types.
package mimetype

import (
	"path/filepath"
	"strings"
)

// Default is returned for extensions missing from the table.
const Default = "application/octet-stream"

// types is keyed by lowercase extension without the dot. Lookups are case
// sensitive, so "PNG" is unknown.
var types = map[string]string{
	"html": "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"json": "application/json",
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
	"mp4":  "video/mp4",
	"mkv":  "video/x-matroska",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"zip":  "application/zip",
	"rar":  "application/x-rar-compressed",
	"tar":  "application/x-tar",
	"gz":   "application/gzip",
	"txt":  "text/plain",
	"py":   "text/x-python",
}

// ByExtension returns the MIME type for ext, with or without its leading dot.
func ByExtension(ext string) string {
	if t, ok := types[strings.TrimPrefix(ext, ".")]; ok {
		return t
	}
	return Default
}

// ForPath returns the MIME type for the extension of path.
func ForPath(path string) string {
	return ByExtension(filepath.Ext(path))
}

// IsImage reports whether mime names an image type.
func IsImage(mime string) bool {
	return strings.HasPrefix(mime, "image/")
}
