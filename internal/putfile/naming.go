package putfile

import (
	"path/filepath"
	"strings"

	"github.com/banshee-data/putxform/internal/replicate"
)

// CompanionSuffix is inserted into the source name to find the companion file.
const CompanionSuffix = "_ev"

// InsertSuffix inserts suffix into the file name of p before its extension.
// The base name is split on its first '.' only, so "put.dat.h5" becomes
// "put<suffix>.dat.h5". Directory components are left alone.
func InsertSuffix(p, suffix string) string {
	dir, base := filepath.Split(p)
	if i := strings.Index(base, "."); i > 0 {
		return dir + base[:i] + suffix + base[i:]
	}
	return dir + base + suffix
}

// OutputPath returns the destination name for src under mode.
func OutputPath(src string, mode replicate.Mode) string {
	return InsertSuffix(src, "_"+mode.String())
}

// CompanionPath returns the companion file name for src.
func CompanionPath(src, suffix string) string {
	if suffix == "" {
		suffix = CompanionSuffix
	}
	return InsertSuffix(src, suffix)
}
