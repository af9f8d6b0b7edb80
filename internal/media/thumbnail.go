// Package media generates derived images (thumbnails) for uploaded photos.
package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register decoder

	"github.com/hayatfoundation/site/internal/storage"
)

const thumbnailQuality = 82

// Result describes the source image and its generated thumbnail.
type Result struct {
	ThumbnailKey string
	ThumbnailURL string
	Width        int // Source width in pixels
	Height       int // Source height in pixels
}

// Thumbnailer writes scaled-down JPEG copies of stored images.
type Thumbnailer struct {
	store storage.Client
	width int
}

func NewThumbnailer(store storage.Client, width int) *Thumbnailer {
	if width <= 0 {
		width = 480
	}
	return &Thumbnailer{store: store, width: width}
}

// Generate decodes the image at key (respecting EXIF orientation), resizes it
// to the configured width keeping the aspect ratio, and stores it next to the
// original as <name>_thumb.jpg. Images narrower than the target width are
// re-encoded without upscaling.
func (t *Thumbnailer) Generate(ctx context.Context, key string) (*Result, error) {
	rc, err := t.store.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer rc.Close()

	src, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := src.Bounds()

	thumb := src
	if bounds.Dx() > t.width {
		thumb = imaging.Resize(src, t.width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	thumbKey := ThumbnailKey(key)
	_ = t.store.Delete(ctx, thumbKey)
	if _, err := t.store.Upload(ctx, thumbKey, &buf); err != nil {
		return nil, fmt.Errorf("failed to store thumbnail: %w", err)
	}

	return &Result{
		ThumbnailKey: thumbKey,
		ThumbnailURL: t.store.URL(thumbKey),
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
	}, nil
}

// ThumbnailKey derives the thumbnail key of an original image key.
func ThumbnailKey(key string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "_thumb.jpg"
}
