package mdstat

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// DefaultPath is where the kernel publishes the md status text.
const DefaultPath = "/proc/mdstat"

// ErrSourceUnavailable wraps every failure to obtain the status text.
var ErrSourceUnavailable = errors.New("mdstat source unavailable")

// Source returns the raw status text.
type Source interface {
	Read(ctx context.Context) (string, error)
}

// FileSource reads the status text from a file on every call.
type FileSource struct {
	Path string
}

// NewFileSource returns a FileSource for path, or DefaultPath when path is empty.
func NewFileSource(path string) *FileSource {
	if path == "" {
		path = DefaultPath
	}
	return &FileSource{Path: path}
}

// Read reads the whole file.
func (s *FileSource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read %s: %w", ErrSourceUnavailable, s.Path, err)
	}
	return string(data), nil
}

func (s *FileSource) String() string {
	return s.Path
}

// StaticSource serves a fixed text. Used for captured status files and tests.
type StaticSource string

// Read returns the text.
func (s StaticSource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return string(s), nil
}
