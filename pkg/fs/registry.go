package fs

import (
	"context"

	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/log"
)

var logger = log.New("fs")

// Registry holds an ordered list of filesystem Types and is the path
// classifier (C1): the first Type whose IsPath matches wins, ties broken by
// registration order.
type Registry struct {
	types []Type
}

// NewRegistry builds a Registry from types, in priority order.
func NewRegistry(types ...Type) *Registry {
	return &Registry{types: types}
}

// Register appends a Type to the end of the priority list.
func (r *Registry) Register(t Type) {
	r.types = append(r.types, t)
}

// GetFile dispatches path to the first matching Type's GetFile. If no Type
// claims the path, it fails with errtypes.UnknownFileSystem.
func (r *Registry) GetFile(ctx context.Context, path string, creds Credentials) (File, error) {
	for _, t := range r.types {
		if !t.IsPath(path) {
			continue
		}
		f, err := t.GetFile(ctx, path, creds)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	logger.Debug().Str("path", path).Msg("no registered filesystem type claims this path")
	return nil, errtypes.UnknownFileSystem(path)
}

// TypeFor returns the Type that would claim path, or nil if none does.
func (r *Registry) TypeFor(path string) Type {
	for _, t := range r.types {
		if t.IsPath(path) {
			return t
		}
	}
	return nil
}
