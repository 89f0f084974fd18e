package engine

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

type CompressorFactory func(logger *zap.Logger, opts Options) (Compressor, error)

// UnsupportedTypeError is returned when a compressor kind is not registered.
type UnsupportedTypeError struct {
	Category  string   // "compressor"
	Kind      string   // the requested kind
	Available []string // registered kinds
}

func (e *UnsupportedTypeError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unsupported %s type %q: no %ss registered", e.Category, e.Kind, e.Category)
	}
	return fmt.Sprintf("unsupported %s type %q (available: %v)", e.Category, e.Kind, e.Available)
}

type Registry struct {
	mu          sync.RWMutex
	compressors map[string]CompressorFactory
	logger      *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		compressors: make(map[string]CompressorFactory),
		logger:      logger,
	}
}

func (r *Registry) RegisterCompressor(kind string, factory CompressorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compressors[kind] = factory
}

func (r *Registry) CreateCompressor(kind string, opts Options) (Compressor, error) {
	r.mu.RLock()
	factory, ok := r.compressors[kind]
	available := r.availableCompressors()
	r.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedTypeError{Category: "compressor", Kind: kind, Available: available}
	}
	return factory(r.logger.Named(kind), opts.WithDefaults())
}

func (r *Registry) AvailableCompressors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.availableCompressors()
}

func (r *Registry) availableCompressors() []string {
	compressors := lo.Keys(r.compressors)
	slices.Sort(compressors)
	return compressors
}
