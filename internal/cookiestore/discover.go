package cookiestore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-ini/ini"
)

const cookieDBName = "cookies.sqlite"

// Candidate is a discovered cookie database.
type Candidate struct {
	Path    string
	Profile string
}

// Discover walks the Firefox profile root(s) for cookie databases.
// rootOverride replaces the per-OS default roots when non-empty.
func Discover(rootOverride string) ([]Candidate, error) {
	roots := firefoxRoots()
	if rootOverride = strings.TrimSpace(rootOverride); rootOverride != "" {
		roots = []string{rootOverride}
	}

	var existing []string
	for _, root := range roots {
		if fi, err := os.Stat(root); err == nil && fi.IsDir() {
			existing = append(existing, root)
		}
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("%w: Firefox profile directory not found (looked in %s)", ErrConfiguration, strings.Join(roots, ", "))
	}

	var out []Candidate
	for _, root := range existing {
		names := profileNames(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || d.Name() != cookieDBName {
				return nil
			}
			dir := filepath.Dir(path)
			prof := names[dir]
			if prof == "" {
				prof = filepath.Base(dir)
			}
			out = append(out, Candidate{Path: path, Profile: prof})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no %s under %s", ErrNotFound, cookieDBName, strings.Join(existing, ", "))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// profileNames maps profile directories to the names declared in
// profiles.ini. Discovery does not depend on the ini file being present;
// it only improves how candidates are labeled.
func profileNames(root string) map[string]string {
	cfg, err := ini.Load(filepath.Join(root, "profiles.ini"))
	if err != nil {
		return nil
	}

	names := make(map[string]string)
	for _, secName := range cfg.SectionStrings() {
		if !strings.HasPrefix(secName, "Profile") {
			continue
		}
		sec := cfg.Section(secName)
		pathStr := filepath.FromSlash(sec.Key("Path").String())
		if pathStr == "" {
			continue
		}
		if sec.Key("IsRelative").String() == "1" {
			pathStr = filepath.Join(root, pathStr)
		}
		if name := sec.Key("Name").String(); name != "" {
			names[pathStr] = name
		}
	}
	return names
}
