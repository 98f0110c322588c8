// Package archive extracts the registry's gzip tarballs.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ExtractTarGz unpacks src into destDir, discarding the single top-level
// directory the registry wraps every tarball in (the usual "package/"
// root). Entries sitting directly at the archive root are skipped.
func ExtractTarGz(src string, destDir string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open tarball: %v", err)
	}
	defer f.Close()

	gzReader, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %v", err)
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		hdr, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry: %v", err)
		}

		rel, ok := stripRoot(hdr.Name)
		if !ok {
			continue
		}

		target := filepath.Join(destDir, rel)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("tar entry %q escapes destination directory", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %v", target, err)
			}
		case tar.TypeReg:
			if err := writeFile(target, tarReader, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("creating directory for %s: %v", target, err)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("creating symlink %s: %v", target, err)
			}
		default:
			// devices, fifos and the like never appear in registry tarballs
			continue
		}
	}
	return nil
}

// stripRoot removes the first path component. The second return is false
// when the entry has no component below the root.
func stripRoot(name string) (string, bool) {
	clean := filepath.Clean(strings.TrimPrefix(name, "./"))
	idx := strings.IndexByte(clean, '/')
	if idx < 0 {
		return "", false
	}
	rel := clean[idx+1:]
	if rel == "" || rel == "." {
		return "", false
	}
	return rel, true
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %v", target, err)
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file %s: %v", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("writing file %s: %v", target, err)
	}
	return nil
}
