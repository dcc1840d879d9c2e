// Package thumbnail derives fixed-size JPEG previews from uploaded images.
package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/disintegration/imaging"

	"photo-vault/internal/faults"
	"photo-vault/internal/metrics"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// DefaultSize is the edge length of derived thumbnails in pixels.
	DefaultSize = 300
	// DefaultQuality is the JPEG quality used for thumbnails.
	DefaultQuality = 80
)

// Deriver produces square JPEG thumbnails. Sources are cropped to a
// centered square before scaling, never letterboxed, so every thumbnail
// has the same aspect ratio regardless of the source.
type Deriver struct {
	Size    int
	Quality int
}

// NewDeriver returns a Deriver with the given edge length. A size of 0
// selects DefaultSize.
func NewDeriver(size int) *Deriver {
	if size <= 0 {
		size = DefaultSize
	}
	return &Deriver{Size: size, Quality: DefaultQuality}
}

// Derive decodes data and returns a Size x Size JPEG preview.
// An unreadable or unsupported payload is reported as a decode fault.
func (d *Deriver) Derive(data []byte) ([]byte, error) {
	start := time.Now()

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, faults.Decode.Wrap(err)
	}

	// Fill crops to the middle square and scales in one pass.
	thumb := imaging.Fill(img, d.Size, d.Size, imaging.Center, imaging.Lanczos)

	// An encode failure is not a decode fault: the payload was readable,
	// something went wrong on our side.
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: d.Quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	metrics.ThumbnailDuration.Observe(time.Since(start).Seconds())
	return buf.Bytes(), nil
}

// Dimensions returns the pixel width and height of the image in data
// without decoding the full pixel grid.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, faults.Decode.Wrap(err)
	}
	return cfg.Width, cfg.Height, nil
}
