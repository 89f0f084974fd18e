package engine

// Resolver maps a caller-facing path (which may use a virtual scheme such as
// "public://") to a real path on the compressor's filesystem.
type Resolver func(path string) string

// IdentityResolver returns paths unchanged.
func IdentityResolver(path string) string {
	return path
}
