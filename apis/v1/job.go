package v1

const CompressJobKind = "CompressJob"

type CompressJob struct {
	Kind     string          `yaml:"kind" json:"kind" toml:"kind" validate:"required,eq=CompressJob"`
	Metadata Metadata        `yaml:"metadata" json:"metadata" toml:"metadata"`
	Spec     CompressJobSpec `yaml:"spec" json:"spec" toml:"spec"`
}

type Metadata struct {
	Name string `yaml:"name" json:"name" toml:"name" validate:"required"`
}

type CompressJobSpec struct {
	Format   FormatSpec    `yaml:"format" json:"format" toml:"format"`
	Target   TargetSpec    `yaml:"target" json:"target" toml:"target"`
	Sources  []string      `yaml:"sources" json:"sources" toml:"sources" template:""`
	Resolver *ResolverSpec `yaml:"resolver,omitempty" json:"resolver,omitempty" toml:"resolver,omitempty"`
	Publish  *PublishSpec  `yaml:"publish,omitempty" json:"publish,omitempty" toml:"publish,omitempty"`
}

// FormatSpec selects the archive format (one of the fields should be set, default: zip).
type FormatSpec struct {
	Zip *ZipFormat `yaml:"zip,omitempty" json:"zip,omitempty" toml:"zip,omitempty"`
	Tar *TarFormat `yaml:"tar,omitempty" json:"tar,omitempty" toml:"tar,omitempty"`
}

// ZipFormat configures zip output (no options currently).
type ZipFormat struct{}

// TarFormat configures tar output.
type TarFormat struct {
	// Compression is one of gzip (default), zstd or none.
	Compression string `yaml:"compression,omitempty" json:"compression,omitempty" toml:"compression,omitempty" validate:"omitempty,oneof=gzip zstd none"`
}

// TargetSpec configures where the archive is written. The archive path is
// Directory/Base with the format extension appended.
type TargetSpec struct {
	// Base is the archive name without extension. Defaults to the job name.
	Base string `yaml:"base,omitempty" json:"base,omitempty" toml:"base,omitempty" template:""`
	// Directory is the output directory. Defaults to the working directory.
	Directory string `yaml:"directory,omitempty" json:"directory,omitempty" toml:"directory,omitempty" template:""`
}

// ResolverSpec configures how source paths map to real files.
type ResolverSpec struct {
	// Root is prepended to relative source paths.
	Root string `yaml:"root,omitempty" json:"root,omitempty" toml:"root,omitempty" template:""`
	// Schemes maps URI schemes (e.g. "public") to directories.
	Schemes map[string]string `yaml:"schemes,omitempty" json:"schemes,omitempty" toml:"schemes,omitempty"`
}

// PublishSpec configures where a successfully built archive is copied.
type PublishSpec struct {
	Folder *FolderPublish `yaml:"folder,omitempty" json:"folder,omitempty" toml:"folder,omitempty"`
	S3     *S3Publish     `yaml:"s3,omitempty" json:"s3,omitempty" toml:"s3,omitempty"`
}

type FolderPublish struct {
	Path string `yaml:"path" json:"path" toml:"path" validate:"required" template:""`
}

type S3Publish struct {
	Bucket         string         `yaml:"bucket" json:"bucket" toml:"bucket" validate:"required" template:""`
	Region         *string        `yaml:"region,omitempty" json:"region,omitempty" toml:"region,omitempty" template:""`
	Endpoint       *string        `yaml:"endpoint,omitempty" json:"endpoint,omitempty" toml:"endpoint,omitempty" template:""`
	Prefix         *string        `yaml:"prefix,omitempty" json:"prefix,omitempty" toml:"prefix,omitempty" template:""`
	ForcePathStyle bool           `yaml:"force_path_style,omitempty" json:"force_path_style,omitempty" toml:"force_path_style,omitempty"`
	Credentials    *S3Credentials `yaml:"credentials,omitempty" json:"credentials,omitempty" toml:"credentials,omitempty"`
}

type S3Credentials struct {
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id" toml:"access_key_id" validate:"required" template:""`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key" toml:"secret_access_key" validate:"required" template:""`
}
