// Package registry resolves the configured model location to a single
// weight file on disk.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"llmchat/internal/fsutil"
)

// ErrAmbiguous is returned when a directory holds more than one weight file.
var ErrAmbiguous = errors.New("multiple model files")

// weightExts lists the file extensions treated as model weights.
var weightExts = []string{".gguf", ".bin", ".ggml"}

// Resolve expands a leading '~', makes path absolute and, when it names a
// directory, picks the single weight file inside it. A path that does not
// exist is returned as-is (absolute) so the loader can report it.
func Resolve(path string) (string, error) {
	base, err := fsutil.ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	if !fsutil.IsDir(abs) {
		return abs, nil
	}
	files, err := scanDir(abs)
	if err != nil {
		return "", err
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no model files in %s: %w", abs, os.ErrNotExist)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("%s: %w: %s", abs, ErrAmbiguous, strings.Join(names(files), ", "))
	}
}

// scanDir lists weight files in dir, sorted by name.
func scanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isWeightFile(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

func isWeightFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, w := range weightExts {
		if ext == w {
			return true
		}
	}
	return false
}

func names(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
