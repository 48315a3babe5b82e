// Package batch cleans a tree of listing exports one file at a time and keeps
// only the newest cleaned version of each.
package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrFolderNotFound matches any *FolderNotFoundError.
var ErrFolderNotFound = errors.New("folder not found")

// FolderNotFoundError reports an input folder that does not exist.
type FolderNotFoundError struct{ Path string }

func (e *FolderNotFoundError) Error() string        { return fmt.Sprintf("folder %s does not exist", e.Path) }
func (e *FolderNotFoundError) Is(target error) bool { return target == ErrFolderNotFound }

// IsCSV reports whether name is a delimited text file, possibly compressed.
func IsCSV(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".csv") || strings.HasSuffix(n, ".csv.gz") || strings.HasSuffix(n, ".csv.zst")
}

func checkFolder(dir string) error {
	st, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return &FolderNotFoundError{Path: dir}
	}
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// Discover walks root and returns every CSV file below it in lexical order.
func Discover(root string) ([]string, error) {
	if err := checkFolder(root); err != nil {
		return nil, err
	}
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsCSV(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}
	return files, nil
}

// List returns the CSV files directly inside dir, sorted by name.
func List(dir string) ([]string, error) {
	if err := checkFolder(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsCSV(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
