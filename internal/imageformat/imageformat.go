// Package imageformat enumerates the image formats the engine accepts.
package imageformat

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported image encoding.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
	WebP Format = "webp"

	// Unknown is returned for extensions outside the supported set.
	Unknown Format = ""
)

// formatsByExtension maps lowercase filename extensions to formats.
var formatsByExtension = map[string]Format{
	".jpg":  JPEG,
	".jpeg": JPEG,
	".png":  PNG,
	".gif":  GIF,
	".webp": WebP,
}

// mimeTypes maps formats to their MIME types.
var mimeTypes = map[Format]string{
	JPEG: "image/jpeg",
	PNG:  "image/png",
	GIF:  "image/gif",
	WebP: "image/webp",
}

// FromFilename returns the declared format for a filename based on its
// extension, or Unknown if the extension is not in the supported set.
func FromFilename(name string) Format {
	ext := strings.ToLower(filepath.Ext(name))
	return formatsByExtension[ext]
}

// Supported reports whether f is one of the accepted formats.
func (f Format) Supported() bool {
	_, ok := mimeTypes[f]
	return ok
}

// MimeType returns the MIME type for the format, or "" for Unknown.
func (f Format) MimeType() string {
	return mimeTypes[f]
}

func (f Format) String() string {
	return string(f)
}
