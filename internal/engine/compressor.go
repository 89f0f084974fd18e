package engine

// Compressor bundles a list of files into a single archive of one format.
// Implementations are immutable after construction and safe to reuse across calls.
type Compressor interface {
	Named

	// Extension returns the file extension for this archive type without the
	// leading dot (e.g., "zip", "tar.gz").
	Extension() string

	// TargetPath derives the archive path from a base identifier by appending
	// the extension.
	TargetPath(base string) string

	// Build creates or truncates the archive at target and adds every source
	// under its base name. Per-file failures are reported in the result and
	// never abort the build.
	Build(target string, sources []string) Result
}
