// Package files discovers input images and checks output paths.
package files

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// DefaultExtensions are listed when ListImages is given none.
var DefaultExtensions = []string{".jpg", ".jpeg"}

// ListImages returns the regular files in dir whose extension matches one
// of exts (case-insensitive, with or without the dot), sorted by name.
// Subdirectories are not descended into.
func ListImages(dir string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	want := lo.Map(exts, func(e string, _ int) string {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		return e
	})

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	matched := lo.FilterMap(entries, func(e fs.DirEntry, _ int) (string, bool) {
		if !e.Type().IsRegular() {
			return "", false
		}
		return e.Name(), lo.Contains(want, strings.ToLower(filepath.Ext(e.Name())))
	})
	slices.Sort(matched)
	return matched, nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// OutputName derives "<stem>_<suffix><ext>" from an input path, keeping
// its directory. An empty ext keeps the input extension.
func OutputName(input, suffix, ext string) string {
	dir, base := filepath.Split(input)
	inExt := filepath.Ext(base)
	if ext == "" {
		ext = inExt
	}
	return filepath.Join(dir, strings.TrimSuffix(base, inExt)+"_"+suffix+ext)
}
