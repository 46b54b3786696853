package dataset

import (
	"errors"
	"fmt"
)

// Sentinel errors for dataset scanning and verification.
var (
	// ErrDatasetNotFound marks a missing or empty dataset folder.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrInconsistentDataset marks a file that violates the dataset
	// filename convention.
	ErrInconsistentDataset = errors.New("inconsistent dataset")
	// ErrEmptyFile marks a zero-byte file found during integrity checks.
	ErrEmptyFile = errors.New("empty file")
	// ErrDuplicateFile marks two files with identical content found during
	// secure hashing.
	ErrDuplicateFile = errors.New("duplicate file")
)

// IntegrityError reports a checksum verification mismatch.
type IntegrityError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity error: %s expected checksum %s, got %s",
		e.Path, e.Expected, e.Actual)
}
