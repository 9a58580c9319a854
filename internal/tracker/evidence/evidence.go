// Package evidence stores the files students attach to submissions.
package evidence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage is a flat object store keyed by generated object keys.
type Storage interface {
	// Put writes r under key and returns the number of bytes written.
	Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error)

	// Open returns ErrNotFound when the key does not exist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete is a no-op for keys that do not exist.
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	ErrNotFound   = errors.New("evidence: object not found")
	ErrInvalidKey = errors.New("evidence: invalid object key")
)

// NewObjectKey returns a random key that keeps the lower-cased extension of
// the uploaded file name.
func NewObjectKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !validExt(ext) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// ValidKey reports whether key is a single path element we generated.
func ValidKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return false
	}
	id, ext, _ := strings.Cut(key, ".")
	if _, err := uuid.Parse(id); err != nil {
		return false
	}
	return ext == "" || validExt("."+ext)
}

func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// Kind groups evidence by media type.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Limits caps the evidence on one submission.
type Limits struct {
	MaxImages int
	MaxVideos int
	MaxFiles  int
}

var DefaultLimits = Limits{MaxImages: 5, MaxVideos: 2, MaxFiles: 7}

var (
	ErrUnsupportedType = errors.New("evidence: only image and video files are accepted")
	ErrTooManyImages   = errors.New("evidence: too many images")
	ErrTooManyVideos   = errors.New("evidence: too many videos")
	ErrTooManyFiles    = errors.New("evidence: too many files")
)

// KindOf classifies a MIME type. Parameters such as charset are ignored.
func KindOf(mimeType string) (Kind, error) {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mimeType)), ";")
	switch {
	case base == "image/svg+xml":
		// SVG can carry script.
	case strings.HasPrefix(base, "image/") && len(base) > len("image/"):
		return KindImage, nil
	case strings.HasPrefix(base, "video/") && len(base) > len("video/"):
		return KindVideo, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, mimeType)
}

// Check validates a whole set of files by MIME type.
func (l Limits) Check(mimeTypes []string) error {
	var images, videos int
	for _, mt := range mimeTypes {
		kind, err := KindOf(mt)
		if err != nil {
			return err
		}
		switch kind {
		case KindImage:
			images++
		case KindVideo:
			videos++
		}
	}

	switch {
	case len(mimeTypes) > l.MaxFiles:
		return fmt.Errorf("%w: %d > %d", ErrTooManyFiles, len(mimeTypes), l.MaxFiles)
	case images > l.MaxImages:
		return fmt.Errorf("%w: %d > %d", ErrTooManyImages, images, l.MaxImages)
	case videos > l.MaxVideos:
		return fmt.Errorf("%w: %d > %d", ErrTooManyVideos, videos, l.MaxVideos)
	}
	return nil
}
