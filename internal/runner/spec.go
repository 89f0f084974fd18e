package runner

import (
	v1 "github.com/infracollect/filecompressor/apis/v1"
	"github.com/infracollect/filecompressor/internal/engine"
	"github.com/infracollect/filecompressor/internal/engine/compressors"
	"github.com/infracollect/filecompressor/internal/engine/resolvers"
)

// ResolvedFormat holds a compressor kind and the options for that kind.
type ResolvedFormat struct {
	Kind        string
	Compression string
}

// ResolveFormat extracts the compressor kind from a job. Zip is the default.
func ResolveFormat(spec v1.FormatSpec) ResolvedFormat {
	if spec.Tar != nil {
		return ResolvedFormat{Kind: compressors.TarKind, Compression: spec.Tar.Compression}
	}
	return ResolvedFormat{Kind: compressors.ZipKind}
}

// BuildResolver turns a resolver spec into an engine.Resolver.
func BuildResolver(spec *v1.ResolverSpec) engine.Resolver {
	if spec == nil {
		return engine.IdentityResolver
	}

	resolve := engine.IdentityResolver
	if spec.Root != "" {
		resolve = resolvers.BasePath(spec.Root)
	}

	if len(spec.Schemes) > 0 {
		resolve = resolvers.Schemes(spec.Schemes, resolve)
	}

	return resolve
}
