package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"

	"github.com/iscc/twinspect/internal/registry"
)

// FuncExactMatch identifies the exact-match baseline algorithm. It hashes
// file content into a 64-bit code, so only bit-identical files match at
// threshold 0. Useful as a lower bound and for pipeline smoke tests.
const FuncExactMatch = "twinspect:exact_match_64"

// registerBuiltins installs the functions shipped with the binary.
func registerBuiltins(reg *registry.Registry) {
	reg.RegisterAlgorithm(FuncExactMatch, exactMatchCode)
}

// exactMatchCode generates a 64-bit content hash as a hex compact code.
func exactMatchCode(ctx context.Context, filePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	h, err := blake2b.New(8, nil)
	if err != nil {
		return "", fmt.Errorf("initializing hash: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", filePath, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
