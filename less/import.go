package less

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// importRecord remembers an already-resolved @import's bottom half (the
// props that follow the spliced top props) and the parser/import-dir
// state active when it was resolved, per spec §4.5.3's "import_mixin"
// placeholder mechanism.
type importRecord struct {
	bottomProps []*Prop
	importDir   string
	resolved    bool
}

// findImport implements §4.7: search each configured import directory in
// order; a match is the first file that exists as "<dir>/<url>.less" or
// "<dir>/<url>". URLs ending in ".css" are never resolved.
func (c *Compiler) findImport(url string) string {
	if strings.HasSuffix(url, ".css") {
		return ""
	}

	candidates := []string{url}
	if !strings.HasSuffix(url, ".less") {
		candidates = []string{url + ".less", url}
	}

	for _, dir := range c.importDirs {
		for _, cand := range candidates {
			path := filepath.Join(dir, cand)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				c.logger.Subject(url).DebugContext(c.ctx(), "import resolved", slog.String("resolved", path))

				return path
			}
		}

		// Fall back to a recursive search below the directory for any
		// file named "<basename of url>.less". The directory itself is
		// used as a literal path; glob patterns in it are not expanded.
		matches, err := doublestar.Glob(os.DirFS(dir), "**/"+filepath.Base(url)+".less")
		if err == nil && len(matches) > 0 {
			path := filepath.Join(dir, matches[0])

			c.logger.Subject(url).DebugContext(c.ctx(), "import resolved via glob",
				slog.String("dir", dir), slog.String("resolved", path))

			return path
		}
	}

	c.logger.Subject(url).WarnContext(c.ctx(), "import not found", slog.Any("dirs", c.importDirs))

	return ""
}

// canonicalPath resolves path to an absolute, cleaned form used as the
// key into allParsedFiles for import-cycle detection (spec §3.4).
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}

	return resolved
}
