package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrOutsideBaseDir = errors.New("import source is outside the import directory")

// LocalSource opens queued import files below BaseDir. Absolute paths are
// accepted only when they resolve inside BaseDir.
type LocalSource struct {
	BaseDir string
}

func NewLocalSource(baseDir string) *LocalSource {
	if baseDir == "" {
		baseDir = "."
	}
	return &LocalSource{BaseDir: baseDir}
}

func (s *LocalSource) Open(ctx context.Context, sourcePath string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := s.relative(sourcePath)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenInRoot(s.BaseDir, name)
	if err != nil {
		return nil, fmt.Errorf("open import file %s: %w", sourcePath, err)
	}
	return file, nil
}

func (s *LocalSource) relative(sourcePath string) (string, error) {
	if !filepath.IsAbs(sourcePath) {
		return filepath.Clean(sourcePath), nil
	}

	base, err := filepath.Abs(s.BaseDir)
	if err != nil {
		return "", fmt.Errorf("resolve import directory: %w", err)
	}
	rel, err := filepath.Rel(base, sourcePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideBaseDir, sourcePath)
	}
	return rel, nil
}
