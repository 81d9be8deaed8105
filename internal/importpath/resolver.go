// Package importpath computes TypeScript import specifiers between a generated
// file and a source file.
package importpath

import (
	"path"
	"path/filepath"
	"strings"
)

// VendorDir is the directory name that marks a vendored dependency.
const VendorDir = "node_modules"

// sourceExtensions are stripped from relative specifiers, longest first.
var sourceExtensions = []string{".d.ts", ".tsx", ".ts", ".mts", ".cts", ".jsx", ".js"}

// Resolve returns the specifier used by the file at from to import the file at to.
// Files under node_modules resolve to their package name; everything else gets
// a "./" or "../" relative path without extension.
func Resolve(from, to string) string {
	if pkg, ok := packageSpecifier(to); ok {
		return pkg
	}

	rel, err := filepath.Rel(filepath.Dir(from), to)
	if err != nil {
		rel = to
	}
	rel = filepath.ToSlash(rel)
	rel = stripExtension(rel)

	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// packageSpecifier returns the package name for a path under the vendor
// directory: "@scope/name" for scoped packages, "name" otherwise.
func packageSpecifier(to string) (string, bool) {
	segments := strings.Split(filepath.ToSlash(to), "/")
	idx := -1
	for i, s := range segments {
		if s == VendorDir {
			idx = i
		}
	}
	if idx < 0 || idx+1 >= len(segments) {
		return "", false
	}

	rest := segments[idx+1:]
	if strings.HasPrefix(rest[0], "@") && len(rest) > 1 {
		return path.Join(rest[0], rest[1]), true
	}
	return rest[0], true
}

func stripExtension(p string) string {
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return p
}
