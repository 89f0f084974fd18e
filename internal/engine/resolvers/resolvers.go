// Package resolvers maps caller-facing source paths to real filesystem paths.
package resolvers

import (
	"path/filepath"
	"strings"

	"github.com/infracollect/filecompressor/internal/engine"
)

const schemeSeparator = "://"

// BasePath joins relative paths under root and leaves absolute paths alone.
func BasePath(root string) engine.Resolver {
	cleanRoot := filepath.Clean(root)
	return func(path string) string {
		if filepath.IsAbs(path) {
			return filepath.Clean(path)
		}
		return filepath.Join(cleanRoot, path)
	}
}

// Schemes resolves stream-wrapper style URIs such as "public://docs/a.pdf"
// against a directory per scheme. Paths without a scheme go through fallback.
// URIs with an unknown scheme, or that would escape their scheme directory,
// are returned unchanged so that lookups on them fail.
func Schemes(dirs map[string]string, fallback engine.Resolver) engine.Resolver {
	if fallback == nil {
		fallback = engine.IdentityResolver
	}

	return func(path string) string {
		scheme, rest, ok := strings.Cut(path, schemeSeparator)
		if !ok || scheme == "" {
			return fallback(path)
		}

		dir, known := dirs[scheme]
		if !known {
			return path
		}

		resolved := filepath.Join(dir, filepath.FromSlash(rest))
		if !within(dir, resolved) {
			return path
		}
		return resolved
	}
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
