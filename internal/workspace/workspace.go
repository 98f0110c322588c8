// Package workspace manages the tarballs/ and packages/ directories next
// to the binary. Every run starts from a clean slate; there is no
// incremental state between runs.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xlts-tools/registry-fetch/internal/catalog"
)

// Workspace is rooted at a directory containing the two output trees.
type Workspace struct {
	root string
}

// New returns a workspace rooted at root.
func New(root string) *Workspace {
	return &Workspace{root: root}
}

// DefaultRoot resolves the directory the running binary lives in, falling
// back to the current working directory.
func DefaultRoot() (string, error) {
	exe, err := os.Executable()
	if err == nil {
		return filepath.Dir(exe), nil
	}
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		return "", fmt.Errorf("resolving workspace root: %v", wdErr)
	}
	return wd, nil
}

// TarballsDir is where downloaded archives land.
func (w *Workspace) TarballsDir() string {
	return filepath.Join(w.root, "tarballs")
}

// PackagesDir is where extracted package trees land.
func (w *Workspace) PackagesDir() string {
	return filepath.Join(w.root, "packages")
}

// Reset deletes both output directories, ignoring absence, and recreates
// them empty. Must run after the user confirms and before any download.
func (w *Workspace) Reset() error {
	for _, dir := range []string{w.TarballsDir(), w.PackagesDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %v", dir, err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %v", dir, err)
		}
	}
	return nil
}

// Tarballs lists the archive files currently in the tarballs directory,
// in directory-listing order.
func (w *Workspace) Tarballs() ([]string, error) {
	entries, err := os.ReadDir(w.TarballsDir())
	if err != nil {
		return nil, fmt.Errorf("listing tarballs: %v", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), catalog.TarballExt) {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

// PackageDirs lists the immediate subdirectories of packages/, sorted,
// for the final report.
func (w *Workspace) PackageDirs() ([]string, error) {
	entries, err := os.ReadDir(w.PackagesDir())
	if err != nil {
		return nil, fmt.Errorf("listing packages: %v", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
