package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTooLarge        = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Kind groups the accepted upload content types.
type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

var allowed = map[string]Kind{
	"image/jpeg":      KindImage,
	"image/png":       KindImage,
	"image/gif":       KindImage,
	"image/webp":      KindImage,
	"application/pdf": KindDocument,
}

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Stored describes a file written by Save.
type Stored struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Kind        Kind   `json:"kind"`
	Size        int64  `json:"size"`
}

// Save sniffs the content type of r, rejects anything but images and PDFs,
// and writes it to <folder>/<yyyy>/<mm>/<uuid><ext>. At most maxBytes are
// accepted. kinds restricts the accepted kinds; none means all.
func Save(ctx context.Context, c Client, folder, originalName string, r io.Reader, maxBytes int64, kinds ...Kind) (*Stored, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	contentType := http.DetectContentType(head)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	kind, ok := allowed[contentType]
	if !ok || (len(kinds) > 0 && !containsKind(kinds, kind)) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	now := time.Now().UTC()
	key := path.Join(
		SanitizeSegment(folder),
		now.Format("2006"), now.Format("01"),
		uuid.NewString()+extensions[contentType],
	)

	limited := &io.LimitedReader{R: br, N: maxBytes + 1}
	n, err := c.Upload(ctx, key, limited)
	if err != nil {
		return nil, err
	}
	if n > maxBytes {
		_ = c.Delete(ctx, key)
		return nil, ErrTooLarge
	}

	return &Stored{
		Key:         key,
		URL:         c.URL(key),
		Name:        SanitizeFilename(originalName),
		ContentType: contentType,
		Kind:        kind,
		Size:        n,
	}, nil
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	multipleSpaces       = regexp.MustCompile(`\s+`)
	invalidSegmentChars  = regexp.MustCompile(`[^a-z0-9_-]+`)
)

// SanitizeFilename cleans a client supplied file name for display. The
// stored key never uses it.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimSpace(multipleSpaces.ReplaceAllString(name, " "))
	if r := []rune(name); len(r) > 200 {
		name = strings.TrimSpace(string(r[:200]))
	}
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}

// SanitizeSegment reduces a folder name to [a-z0-9_-].
func SanitizeSegment(s string) string {
	s = invalidSegmentChars.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "misc"
	}
	return s
}
