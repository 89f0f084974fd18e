package engine

import "github.com/spf13/afero"

// Options are the collaborators shared by every compressor kind.
type Options struct {
	// Fs is where sources are read and the archive is written. Defaults to the OS filesystem.
	Fs afero.Fs
	// Resolver maps source paths to real paths. Defaults to IdentityResolver.
	Resolver Resolver
	// Diagnostics receives skip and failure events. Defaults to NopDiagnostics.
	Diagnostics Diagnostics
	// Compression selects the stream compression for formats that support it.
	Compression string
}

// WithDefaults returns a copy of o with unset collaborators filled in.
func (o Options) WithDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Resolver == nil {
		o.Resolver = IdentityResolver
	}
	if o.Diagnostics == nil {
		o.Diagnostics = NopDiagnostics
	}
	return o
}
