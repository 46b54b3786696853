// Package task executes compact-code generation over dataset files through a
// bounded worker pool, with results cached in a SQLite database keyed by a
// content fingerprint so repeated runs never recompute unchanged work.
package task

import (
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// Task is one unit of code-generation work for an (algorithm, file) pair.
// A task is mutated once by the code-generation collaborator and is
// immutable afterwards.
type Task struct {
	ID   int    `json:"id"`
	File string `json:"file"`
	Code string `json:"code,omitempty"`
	Size int64  `json:"size"`
	// TimeMS is the code-generation duration in milliseconds.
	TimeMS int64 `json:"time"`
	// Error records a per-file code-generation failure. Failed tasks are
	// excluded from aggregate metrics but surfaced in failure counts.
	Error string `json:"error,omitempty"`
}

// Failed reports whether code generation failed for this task.
func (t *Task) Failed() bool {
	return t.Error != ""
}

// Spec describes one file to process. ContentHash is the hex content hash of
// the file, required for fingerprinting.
type Spec struct {
	ID          int
	RelPath     string
	Path        string
	Size        int64
	ContentHash string
}

// Fingerprint derives the cache key for an (algorithm, file, content)
// triple as a 64-bit hex string. Identical fingerprints always produce
// identical results, which is what makes duplicate cache writes harmless.
func Fingerprint(algorithmLabel, relPath, contentHash string) string {
	h, _ := blake2b.New(8, nil)
	io.WriteString(h, algorithmLabel)
	io.WriteString(h, "\x00")
	io.WriteString(h, relPath)
	io.WriteString(h, "\x00")
	io.WriteString(h, contentHash)
	return hex.EncodeToString(h.Sum(nil))
}

// String implements fmt.Stringer for log output.
func (t *Task) String() string {
	if t.Failed() {
		return fmt.Sprintf("task %d %s: failed: %s", t.ID, t.File, t.Error)
	}
	return fmt.Sprintf("task %d %s -> %s", t.ID, t.File, t.Code)
}
