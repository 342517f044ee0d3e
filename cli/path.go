package cli

import (
	"os"
	"path/filepath"

	"github.com/splitbrain/lessgo/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configDir and cacheDir delegate to the shared [pkg] helpers so the CLI
// and the rest of the module agree on one notion of "where do I keep
// state", per [pkg.ConfigDir]/[pkg.CacheDir].
var (
	configDir = pkg.ConfigDir
	cacheDir  = pkg.CacheDir
)

// configPath returns the absolute path to a file or directory formed by
// joining the configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	if err := os.MkdirAll(configDir(), defaultDirMode); err != nil {
		return err
	}

	return os.MkdirAll(cacheDir(), defaultDirMode)
}
