// Package fetcher drives the full provisioning run: decode the token,
// probe the latest version, confirm, reset the workspace, download every
// package, extract every tarball and report.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xlts-tools/registry-fetch/internal/archive"
	"github.com/xlts-tools/registry-fetch/internal/catalog"
	"github.com/xlts-tools/registry-fetch/internal/logger"
	"github.com/xlts-tools/registry-fetch/internal/prompt"
	"github.com/xlts-tools/registry-fetch/internal/token"
	"github.com/xlts-tools/registry-fetch/internal/workspace"
)

// registryClient is the slice of the registry client the run needs.
type registryClient interface {
	LatestVersion(ctx context.Context, pkg string) (string, error)
	DownloadTarball(ctx context.Context, pkg, version, destPath string) error
}

// Options configures one run.
type Options struct {
	Token    string
	Registry string
	Client   registryClient
	Root     string

	// Stdin feeds the confirmation prompt; Stdout receives user-facing
	// status output. Logs go through the zap logger, not Stdout.
	Stdin  io.Reader
	Stdout io.Writer
}

// Run executes the whole pipeline sequentially. A declined confirmation
// returns nil with no filesystem changes; every other failure aborts the
// run with a descriptive error.
func Run(ctx context.Context, opts Options) error {
	log := logger.Logger()

	username, err := token.Username(opts.Token)
	if err != nil {
		return err
	}
	log.Debugf("authenticated payload decoded for %s", username)

	probe := catalog.ProbePackage()
	version, err := opts.Client.LatestVersion(ctx, probe)
	if err != nil {
		return fmt.Errorf("resolving latest version of %s: %v", probe, err)
	}
	if version == "" {
		return fmt.Errorf("registry returned no latest version for %s", probe)
	}
	log.Infof("latest %s version is %s", probe, version)

	packages := catalog.Packages()
	ok := prompt.Confirm(opts.Stdin, opts.Stdout, prompt.Summary{
		Registry:     opts.Registry,
		Username:     username,
		PackageCount: len(packages),
		Version:      version,
	})
	if !ok {
		fmt.Fprintln(opts.Stdout, "Download aborted")
		return nil
	}

	ws := workspace.New(opts.Root)
	if err := ws.Reset(); err != nil {
		return fmt.Errorf("resetting workspace: %v", err)
	}
	log.Debugf("workspace reset under %s", opts.Root)

	for i, pkg := range packages {
		name := catalog.TarballName(pkg, version)
		dest := filepath.Join(ws.TarballsDir(), name)
		fmt.Fprintf(opts.Stdout, "[%d/%d] %s\n", i+1, len(packages), name)
		if err := opts.Client.DownloadTarball(ctx, pkg, version, dest); err != nil {
			return err
		}
	}
	log.Infof("downloaded %d tarballs", len(packages))

	tarballs, err := ws.Tarballs()
	if err != nil {
		return err
	}
	for _, name := range tarballs {
		pkg := catalog.PackageFromTarball(name)
		destDir := filepath.Join(ws.PackagesDir(), pkg)
		log.Debugf("extracting %s into %s", name, destDir)
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return fmt.Errorf("creating %s: %v", destDir, err)
		}
		if err := archive.ExtractTarGz(filepath.Join(ws.TarballsDir(), name), destDir); err != nil {
			return fmt.Errorf("extracting %s: %v", name, err)
		}
	}

	dirs, err := ws.PackageDirs()
	if err != nil {
		return err
	}
	fmt.Fprintf(opts.Stdout, "\nExtracted %d packages:\n", len(dirs))
	for _, dir := range dirs {
		fmt.Fprintf(opts.Stdout, "  %s\n", filepath.Join(ws.PackagesDir(), dir))
	}
	return nil
}
