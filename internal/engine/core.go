package engine

type Named interface {
	Name() string
	Kind() string
}

const (
	// ISO8601Basic is a URL-safe timestamp format without colons.
	// This is the recommended format for S3 keys and filesystem paths.
	ISO8601Basic = "20060102T150405Z"

	// ArchiveComment is stamped on every archive this tool produces.
	ArchiveComment = "Generated by filecompressor."
)
