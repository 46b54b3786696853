// Package dataset scans installed dataset folders: it reconstructs cluster
// ground truth from the filename convention, summarizes folder statistics
// into DatasetInfo records and computes reproducibility checksums.
package dataset

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileMeta is the metadata of one file in a dataset folder. RelPath always
// uses forward slashes, independent of the host filesystem.
type FileMeta struct {
	RelPath string
	Size    int64
	ModTime time.Time
}

// Walk enumerates all files under root in deterministic bottom-up order:
// subdirectories before files, both sorted by name. Symlinks are skipped
// silently, as are dotfiles and dot-directories reserved by the framework.
func Walk(root string) ([]FileMeta, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", root, ErrDatasetNotFound)
		}
		return nil, fmt.Errorf("scanning dataset: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", root, ErrDatasetNotFound)
	}

	var metas []FileMeta
	if err := walkDir(root, "", &metas); err != nil {
		return nil, err
	}
	return metas, nil
}

func walkDir(dir, rel string, metas *[]FileMeta) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []os.DirEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		if entry.IsDir() {
			sub := path.Join(rel, entry.Name())
			if err := walkDir(filepath.Join(dir, entry.Name()), sub, metas); err != nil {
				return err
			}
			continue
		}
		files = append(files, entry)
	}

	for _, entry := range files {
		fi, err := entry.Info()
		if err != nil {
			return fmt.Errorf("reading file info for %s: %w", entry.Name(), err)
		}
		*metas = append(*metas, FileMeta{
			RelPath: path.Join(rel, entry.Name()),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}
	return nil
}
