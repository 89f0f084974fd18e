package engine

// SkipReason explains why a source file was left out of an archive.
type SkipReason string

const (
	ReasonNotFound  SkipReason = "not found"
	ReasonAddFailed SkipReason = "add failed"
)

// Skip records a source that was not added to the archive.
type Skip struct {
	Path   string     `json:"path"`
	Reason SkipReason `json:"reason"`
}

// Result is the outcome of a single Build call.
type Result struct {
	Success bool   `json:"success"`
	Skipped []Skip `json:"skipped"`
}

// SkippedPaths returns the paths of skipped sources in build order.
func (r Result) SkippedPaths() []string {
	paths := make([]string, 0, len(r.Skipped))
	for _, s := range r.Skipped {
		paths = append(paths, s.Path)
	}
	return paths
}
