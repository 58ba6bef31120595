package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds files in one directory
type Discovery struct {
	dir string
}

// NewDiscovery creates a discovery rooted at dir
func NewDiscovery(dir string) *Discovery {
	return &Discovery{dir: dir}
}

// Dir returns the directory being searched
func (d *Discovery) Dir() string {
	return d.dir
}

// Find lists the regular files whose name matches pattern (filepath.Match
// syntax), oldest first. A directory that does not exist yet holds no files.
func (d *Discovery) Find(pattern string) ([]FileInfo, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(d.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if ok, _ := filepath.Match(pattern, name); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(d.dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.Before(files[j].ModTime)
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}

// SortByName orders files by name. Date-stamped names then sort by date.
func SortByName(files []FileInfo) {
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
}

// Prune deletes all but the last keep files of the ordered list and returns
// the ones it removed. keep <= 0 keeps everything.
func Prune(files []FileInfo, keep int) ([]FileInfo, error) {
	if keep <= 0 || len(files) <= keep {
		return nil, nil
	}

	stale := files[:len(files)-keep]
	removed := make([]FileInfo, 0, len(stale))
	var errs []error
	for _, f := range stale {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to remove %s: %w", f.Name, err))
			continue
		}
		removed = append(removed, f)
	}
	return removed, errors.Join(errs...)
}
