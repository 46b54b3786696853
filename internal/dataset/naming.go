package dataset

import (
	"fmt"
	"path"
	"strings"
)

// The dataset filename convention encodes ground truth without an auxiliary
// index file:
//
//   - A file directly inside a first-level subdirectory of the dataset root
//     is a cluster member; the subdirectory name is the cluster identifier.
//     Example: 0000042/0010078.mp3 belongs to cluster 0000042.
//   - A file at the dataset root is a distractor.
//   - The final underscore-separated segment of a filename stem names the
//     transformation applied to the file.
//     Example: z0010078_cmpmd.mp3 carries transformation cmpmd.
//   - The lexicographically first member of a cluster is the original,
//     untransformed file.
//
// Files nested deeper than one subdirectory level violate the convention.

// Name is the ground truth parsed from one root-relative file path.
type Name struct {
	// Cluster is the cluster identifier, empty for distractors.
	Cluster string
	// Transform is the transformation label parsed from the filename stem,
	// empty for untransformed files.
	Transform string
}

// IsDistractor reports whether the file belongs to no cluster.
func (n Name) IsDistractor() bool {
	return n.Cluster == ""
}

// ParseName derives ground truth from a root-relative, slash-separated file
// path. Paths nested deeper than one directory level fail with
// ErrInconsistentDataset.
func ParseName(relPath string) (Name, error) {
	parts := strings.Split(relPath, "/")
	switch len(parts) {
	case 1:
		return Name{Transform: parseTransform(parts[0])}, nil
	case 2:
		if parts[0] == "" {
			return Name{}, fmt.Errorf("%s: empty cluster identifier: %w",
				relPath, ErrInconsistentDataset)
		}
		return Name{Cluster: parts[0], Transform: parseTransform(parts[1])}, nil
	default:
		return Name{}, fmt.Errorf("%s: nested beyond cluster level: %w",
			relPath, ErrInconsistentDataset)
	}
}

// parseTransform extracts the transformation label from a filename: the last
// underscore-separated segment of the stem, or empty without an underscore.
func parseTransform(filename string) string {
	stem := strings.TrimSuffix(filename, path.Ext(filename))
	idx := strings.LastIndex(stem, "_")
	if idx < 0 {
		return ""
	}
	return stem[idx+1:]
}
