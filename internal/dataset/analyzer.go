package dataset

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iscc/twinspect/internal/metrics"
)

// DatasetInfo is the derived, read-only summary of an installed dataset
// folder. The folder remains the source of truth; DatasetInfo is recomputed
// on demand and may be cached keyed by its checksum.
type DatasetInfo struct {
	DatasetLabel         string               `json:"dataset_label"`
	DatasetMode          string               `json:"dataset_mode"`
	TotalSize            int64                `json:"total_size"`
	TotalFiles           int                  `json:"total_files"`
	TotalClusters        int                  `json:"total_clusters"`
	ClusterSizes         metrics.Distribution `json:"cluster_sizes"`
	TotalDistractorFiles int                  `json:"total_distractor_files"`
	// RatioClusterToDistractor divides clustered file count by distractor
	// file count. Nil (JSON null) when the dataset has no distractors.
	RatioClusterToDistractor *float64 `json:"ratio_cluster_to_distractor"`
	Transformations          []string `json:"transformations,omitempty"`
	Checksum                 string   `json:"checksum"`
}

// AnalyzeOptions tune a dataset folder scan.
type AnalyzeOptions struct {
	// Mode overrides extension-based mode inference when non-empty. The
	// configured dataset mode takes precedence over inference.
	Mode string
	// KnownTransformations restricts the reported transformation labels to
	// a declared set. Nil reports every label parsed from filenames.
	KnownTransformations []string
	// HashCache serves cached per-file content hashes during checksum
	// computation.
	HashCache HashCache
}

// Analyze scans an installed dataset folder and produces its DatasetInfo.
// The scan is read-only. Fails with ErrDatasetNotFound when root is missing
// or empty and ErrInconsistentDataset when a file violates the filename
// convention.
func Analyze(root string, opts AnalyzeOptions) (*DatasetInfo, error) {
	metas, err := Walk(root)
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", root, ErrDatasetNotFound)
	}

	var known map[string]bool
	if opts.KnownTransformations != nil {
		known = make(map[string]bool, len(opts.KnownTransformations))
		for _, label := range opts.KnownTransformations {
			known[label] = true
		}
	}

	var totalSize int64
	clusters := make(map[string]int)
	transforms := make(map[string]bool)
	extensions := make(map[string]int)
	distractors := 0

	for _, meta := range metas {
		name, err := ParseName(meta.RelPath)
		if err != nil {
			return nil, err
		}

		totalSize += meta.Size
		extensions[strings.ToLower(path.Ext(meta.RelPath))]++

		if name.IsDistractor() {
			distractors++
			continue
		}
		clusters[name.Cluster]++
		if name.Transform != "" && (known == nil || known[name.Transform]) {
			transforms[name.Transform] = true
		}
	}

	checksum, err := Checksum(root, opts.HashCache)
	if err != nil {
		return nil, err
	}

	clusterSizes := make([]int, 0, len(clusters))
	clusteredFiles := 0
	for _, size := range clusters {
		clusterSizes = append(clusterSizes, size)
		clusteredFiles += size
	}

	info := &DatasetInfo{
		DatasetLabel:         filepath.Base(filepath.Clean(root)),
		DatasetMode:          opts.Mode,
		TotalSize:            totalSize,
		TotalFiles:           len(metas),
		TotalClusters:        len(clusters),
		ClusterSizes:         metrics.NewDistributionInts(clusterSizes),
		TotalDistractorFiles: distractors,
		Transformations:      sortedKeys(transforms),
		Checksum:             checksum,
	}

	if distractors > 0 {
		ratio := float64(clusteredFiles) / float64(distractors)
		info.RatioClusterToDistractor = &ratio
	}

	if info.DatasetMode == "" {
		info.DatasetMode = inferMode(extensions)
	}

	return info, nil
}

// modeByExtension maps known media file extensions to perceptual modes.
var modeByExtension = map[string]string{
	".txt": "text", ".md": "text", ".html": "text", ".pdf": "text", ".epub": "text",
	".jpg": "image", ".jpeg": "image", ".png": "image", ".gif": "image",
	".webp": "image", ".bmp": "image", ".tif": "image", ".tiff": "image",
	".mp3": "audio", ".wav": "audio", ".flac": "audio", ".ogg": "audio", ".m4a": "audio",
	".mp4": "video", ".avi": "video", ".mkv": "video", ".webm": "video", ".mov": "video",
}

// inferMode picks the mode of the most frequent known extension.
func inferMode(extensions map[string]int) string {
	counts := make(map[string]int)
	for ext, n := range extensions {
		if mode, ok := modeByExtension[ext]; ok {
			counts[mode] += n
		}
	}

	best := ""
	bestCount := 0
	for mode, n := range counts {
		if n > bestCount || (n == bestCount && mode < best) {
			best = mode
			bestCount = n
		}
	}
	return best
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
