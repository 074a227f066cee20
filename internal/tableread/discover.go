package tableread

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Discover expands paths into the supported files they name. Directories
// are listed one level deep, or walked when recursive is set. Files named
// explicitly are returned even if their extension is unsupported, so the
// caller can report them.
func Discover(paths []string, recursive bool) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		if !recursive {
			entries, err := os.ReadDir(root)
			if err != nil {
				return nil, fmt.Errorf("list %s: %w", root, err)
			}
			for _, e := range entries {
				p := filepath.Join(root, e.Name())
				if !e.IsDir() && IsSupported(p) {
					add(p)
				}
			}
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsSupported(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}
