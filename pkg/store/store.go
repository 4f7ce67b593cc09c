// Package store loads venue maps from their backing storage.
//
// Two sources are supported: JSON files on disk (the CLI default) and
// MongoDB collections (server deployments where maps are managed by a
// separate editor). Both return the same wire-format [feature.Map] so
// parsing and graph building are source-agnostic.
package store

import (
	"context"
	stderrors "errors"
	"io/fs"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/feature"
)

// Source loads venue maps by name.
type Source interface {
	// Load returns the raw venue map for the given venue.
	Load(ctx context.Context, venue string) (*feature.Map, error)

	// Close releases source resources.
	Close(ctx context.Context) error
}

// FileSource loads venue maps from JSON files on disk.
// The venue name is interpreted as a file path.
type FileSource struct{}

// NewFileSource creates a file-backed source.
func NewFileSource() Source {
	return &FileSource{}
}

// Load reads and decodes the map file at the given path.
func (s *FileSource) Load(ctx context.Context, path string) (*feature.Map, error) {
	if err := errors.ValidateMapPath(path); err != nil {
		return nil, err
	}

	m, err := feature.ReadMapFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "map file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidMap, err, "read map file %s", path)
	}
	return &m, nil
}

// Close does nothing for file sources.
func (s *FileSource) Close(ctx context.Context) error {
	return nil
}

// Ensure FileSource implements Source.
var _ Source = (*FileSource)(nil)
