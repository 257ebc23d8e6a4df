package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoredDirs are directories never descended into during script
// discovery.
var IgnoredDirs = map[string]bool{
	".git":    true,
	".svn":    true,
	".hg":     true,
	".idea":   true,
	".vscode": true,
}

// LoadIgnore compiles the optional .erbignore at the target root.
// Patterns use gitignore syntax and match paths relative to the root.
func LoadIgnore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".erbignore")

	if _, err := os.Stat(path); err == nil {
		if matcher, err := ignore.CompileIgnoreFile(path); err == nil {
			return matcher
		}
	}

	return nil
}

// findDir locates a child directory of root whose name matches want
// case-insensitively. Game archives ship CSV/Csv/csv interchangeably.
func findDir(root, want string) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), want) {
			return filepath.Join(root, e.Name()), true
		}
	}
	return "", false
}

// ScanTables lists the table files directly under the CSV directory of
// root, case-insensitive on both the directory name and the extension. A
// missing CSV directory yields an empty list, not an error.
func ScanTables(root string) ([]FileInfo, error) {
	dir, ok := findDir(root, "CSV")
	if !ok {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		abs := filepath.Join(dir, e.Name())
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			rel = e.Name()
		}
		files = append(files, FileInfo{
			Path: filepath.ToSlash(rel),
			Abs:  abs,
			Size: info.Size(),
		})
	}

	return files, nil
}

// ScanScripts walks the ERB directory of root recursively and returns
// every script file, case-insensitive on the extension. Paths matched by
// matcher (the .erbignore rules) are skipped.
func ScanScripts(root string, matcher *ignore.GitIgnore) ([]FileInfo, error) {
	dir, ok := findDir(root, "ERB")
	if !ok {
		return nil, nil
	}

	var files []FileInfo
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if IgnoredDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(path), ".erb") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: rel, Abs: path, Size: info.Size()})

		return nil
	})

	return files, err
}
