// Package registry maps configuration function identifiers to typed Go
// implementations.
//
// Configuration documents reference collaborator functions by string
// identifier (for example "iscc:audio_code_64"). The registry resolves those
// identifiers at configuration-load time and fails fast on unregistered
// names, so a run never discovers a missing implementation mid-flight.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrNotRegistered is returned when a function identifier has no registered
// implementation of the requested kind.
var ErrNotRegistered = errors.New("function not registered")

// AlgorithmFunc generates a hex-encoded compact code for a media file.
type AlgorithmFunc func(ctx context.Context, filePath string) (string, error)

// InstallerFunc populates targetDir with a dataset using the cluster and
// distractor filename convention expected by the analyzer.
type InstallerFunc func(ctx context.Context, targetDir string, samples int, seed int64) error

// TransformFunc applies a perceptual distortion to inputFile and writes the
// result to outputFile.
type TransformFunc func(ctx context.Context, inputFile, outputFile string, params []any) error

// Registry holds the collaborator implementations available to a run. The
// zero value is not usable; create instances with New. Registries are safe
// for concurrent reads after registration is complete.
type Registry struct {
	algorithms   map[string]AlgorithmFunc
	installers   map[string]InstallerFunc
	transformers map[string]TransformFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		algorithms:   make(map[string]AlgorithmFunc),
		installers:   make(map[string]InstallerFunc),
		transformers: make(map[string]TransformFunc),
	}
}

// RegisterAlgorithm registers a compact-code generator under an identifier.
func (r *Registry) RegisterAlgorithm(ident string, fn AlgorithmFunc) {
	r.algorithms[ident] = fn
}

// RegisterInstaller registers a dataset installer under an identifier.
func (r *Registry) RegisterInstaller(ident string, fn InstallerFunc) {
	r.installers[ident] = fn
}

// RegisterTransform registers a transformation under an identifier.
func (r *Registry) RegisterTransform(ident string, fn TransformFunc) {
	r.transformers[ident] = fn
}

// Algorithm resolves a compact-code generator by identifier.
func (r *Registry) Algorithm(ident string) (AlgorithmFunc, error) {
	fn, ok := r.algorithms[ident]
	if !ok {
		return nil, fmt.Errorf("algorithm function %q: %w", ident, ErrNotRegistered)
	}
	return fn, nil
}

// Installer resolves a dataset installer by identifier.
func (r *Registry) Installer(ident string) (InstallerFunc, error) {
	fn, ok := r.installers[ident]
	if !ok {
		return nil, fmt.Errorf("installer function %q: %w", ident, ErrNotRegistered)
	}
	return fn, nil
}

// Transform resolves a transformation by identifier.
func (r *Registry) Transform(ident string) (TransformFunc, error) {
	fn, ok := r.transformers[ident]
	if !ok {
		return nil, fmt.Errorf("transform function %q: %w", ident, ErrNotRegistered)
	}
	return fn, nil
}

// AlgorithmIdents returns the registered algorithm identifiers in sorted
// order, mainly for diagnostics output.
func (r *Registry) AlgorithmIdents() []string {
	idents := make([]string, 0, len(r.algorithms))
	for ident := range r.algorithms {
		idents = append(idents, ident)
	}
	sort.Strings(idents)
	return idents
}
