// Package catalog holds the fixed set of packages this tool provisions.
package catalog

import (
	"fmt"
	"strings"
)

// Registry is the package registry all requests go to.
const Registry = "https://registry.xlts.dev"

// Scope is the registry scope every package lives under.
const Scope = "@xlts.dev"

// TarballExt is the archive extension the registry serves.
const TarballExt = ".tgz"

// packages is the full AngularJS distribution set, in download order.
// The first entry doubles as the version probe for the whole run.
var packages = []string{
	"angular",
	"angular-animate",
	"angular-aria",
	"angular-cookies",
	"angular-loader",
	"angular-message-format",
	"angular-messages",
	"angular-mocks",
	"angular-parse-ext",
	"angular-resource",
	"angular-route",
	"angular-sanitize",
	"angular-touch",
}

// Packages returns the ordered package list. Callers get a copy so the
// canonical order cannot be mutated.
func Packages() []string {
	out := make([]string, len(packages))
	copy(out, packages)
	return out
}

// ProbePackage is the representative package whose latest version is applied
// to the entire list.
func ProbePackage() string {
	return packages[0]
}

// TarballName builds the archive filename for a package at a version.
func TarballName(pkg, version string) string {
	return fmt.Sprintf("%s-%s%s", pkg, version, TarballExt)
}

// PackageFromTarball derives the package name from a tarball filename by
// dropping the extension and the version suffix after the LAST hyphen, so
// hyphens inside the package name survive
// (angular-message-format-9.9.9.tgz -> angular-message-format).
func PackageFromTarball(filename string) string {
	base := strings.TrimSuffix(filename, TarballExt)
	idx := strings.LastIndex(base, "-")
	if idx < 0 {
		return base
	}
	return base[:idx]
}
