package runner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	v1 "github.com/infracollect/filecompressor/apis/v1"
	"github.com/infracollect/filecompressor/internal/engine"
)

// JobFormat is the serialization of a job file.
type JobFormat string

const (
	JobFormatYAML JobFormat = "yaml"
	JobFormatTOML JobFormat = "toml"
)

var (
	defaultValidator = validator.New(validator.WithRequiredStructEnabled())
)

// JobFormatFromPath picks the job format from the file extension. YAML is the
// default and also covers JSON.
func JobFormatFromPath(path string) JobFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return JobFormatTOML
	}
	return JobFormatYAML
}

// ParseCompressJob parses a YAML, JSON or TOML job file and validates it.
func ParseCompressJob(data []byte, format JobFormat) (v1.CompressJob, error) {
	var job v1.CompressJob

	switch format {
	case JobFormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&job); err != nil {
			return v1.CompressJob{}, fmt.Errorf("failed to unmarshal toml job data: %w", err)
		}
	case JobFormatYAML, "":
		if err := yaml.Unmarshal(data, &job); err != nil {
			return v1.CompressJob{}, fmt.Errorf("failed to unmarshal job data: %w", err)
		}
	default:
		return v1.CompressJob{}, fmt.Errorf("unsupported job format %q", format)
	}

	if err := defaultValidator.Struct(job); err != nil {
		return v1.CompressJob{}, fmt.Errorf("failed to validate job: %w", err)
	}

	if job.Spec.Format.Zip != nil && job.Spec.Format.Tar != nil {
		return v1.CompressJob{}, fmt.Errorf("failed to validate job: format must set only one of zip or tar")
	}

	return job, nil
}

// ReadCompressJob reads and parses the job file at path.
func ReadCompressJob(path string) (v1.CompressJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return v1.CompressJob{}, fmt.Errorf("failed to read job file: %w", err)
	}
	return ParseCompressJob(data, JobFormatFromPath(path))
}

// BuildVariables creates the variables map for template expansion.
// It includes built-in variables and reads allowed environment variables.
// If an allowed variable is not set, an error is returned.
func BuildVariables(job v1.CompressJob, allowedEnv []string) (map[string]string, error) {
	date := time.Now().UTC()
	variables := map[string]string{
		"JOB_NAME":         job.Metadata.Name,
		"JOB_DATE_ISO8601": date.Format(engine.ISO8601Basic),
		"JOB_DATE_RFC3339": date.Format(time.RFC3339),
	}

	var errs error
	for _, envName := range allowedEnv {
		val, ok := os.LookupEnv(envName)
		if !ok {
			errs = errors.Join(errs, fmt.Errorf("environment variable %q is not set", envName))
			continue
		}
		variables[envName] = val
	}

	if errs != nil {
		return nil, errs
	}

	return variables, nil
}
