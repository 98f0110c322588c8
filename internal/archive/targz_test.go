package archive

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

type entry struct {
	name     string
	body     string
	typeflag byte
	linkname string
}

func writeTarGz(t *testing.T, path string, entries []entry) {
	t.Helper()

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     0644,
			Typeflag: e.typeflag,
			Linkname: e.linkname,
			Size:     int64(len(e.body)),
		}
		if e.typeflag == 0 {
			hdr.Typeflag = tar.TypeReg
		}
		if hdr.Typeflag == tar.TypeDir {
			hdr.Mode = 0755
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("writing tar header %s: %v", e.name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatalf("writing tar body %s: %v", e.name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar writer: %v", err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatalf("closing gzip writer: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("writing tarball: %v", err)
	}
}

func TestExtractTarGzStripsRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "pkg-1.0.0.tgz")
	writeTarGz(t, src, []entry{
		{name: "package/", typeflag: tar.TypeDir},
		{name: "package/angular.js", body: "window.angular = {};"},
		{name: "package/src/", typeflag: tar.TypeDir},
		{name: "package/src/main.js", body: "// main"},
	})

	dest := filepath.Join(dir, "out")
	if err := ExtractTarGz(src, dest); err != nil {
		t.Fatalf("ExtractTarGz returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "angular.js"))
	if err != nil {
		t.Fatalf("reading extracted file: %v", err)
	}
	if string(data) != "window.angular = {};" {
		t.Fatalf("unexpected file contents %q", data)
	}
	if _, err := os.Stat(filepath.Join(dest, "src", "main.js")); err != nil {
		t.Fatalf("nested file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "package")); !os.IsNotExist(err) {
		t.Fatal("wrapper directory was not stripped")
	}
}

func TestExtractTarGzSkipsRootLevelEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "pkg-1.0.0.tgz")
	writeTarGz(t, src, []entry{
		{name: "stray.txt", body: "no wrapper"},
		{name: "package/kept.txt", body: "kept"},
	})

	dest := filepath.Join(dir, "out")
	if err := ExtractTarGz(src, dest); err != nil {
		t.Fatalf("ExtractTarGz returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "stray.txt")); !os.IsNotExist(err) {
		t.Fatal("root-level entry should have been skipped")
	}
	if _, err := os.Stat(filepath.Join(dest, "kept.txt")); err != nil {
		t.Fatalf("wrapped entry missing: %v", err)
	}
}

func TestExtractTarGzPreservesSymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "pkg-1.0.0.tgz")
	writeTarGz(t, src, []entry{
		{name: "package/angular.js", body: "real"},
		{name: "package/index.js", typeflag: tar.TypeSymlink, linkname: "angular.js"},
	})

	dest := filepath.Join(dir, "out")
	if err := ExtractTarGz(src, dest); err != nil {
		t.Fatalf("ExtractTarGz returned error: %v", err)
	}
	link, err := os.Readlink(filepath.Join(dest, "index.js"))
	if err != nil {
		t.Fatalf("reading symlink: %v", err)
	}
	if link != "angular.js" {
		t.Fatalf("unexpected link target %q", link)
	}
}

func TestExtractTarGzRejectsTraversal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "evil.tgz")
	writeTarGz(t, src, []entry{
		{name: "package/../../../outside/secret.txt", body: "nope"},
	})

	dest := filepath.Join(dir, "out")
	err := ExtractTarGz(src, dest)
	if err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}
	if !strings.Contains(err.Error(), "escapes destination") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestExtractTarGzMissingFile(t *testing.T) {
	t.Parallel()

	if err := ExtractTarGz(filepath.Join(t.TempDir(), "absent.tgz"), t.TempDir()); err == nil {
		t.Fatal("expected error for missing tarball")
	}
}
