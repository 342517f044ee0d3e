//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/splitbrain/lessgo/log"
	"github.com/splitbrain/lessgo/pkg"
	"github.com/splitbrain/lessgo/profile"
)

// profileLabel derives a profile.WithLabel subdirectory name from the
// stylesheet(s) being compiled, so profiling "foo.less" and "bar.less"
// against the same cache directory don't overwrite each other's
// cpu.pprof/mem.pprof files. Stdin ("-") and multi-file runs fall back to
// no label (profiles land directly under the mode's output directory).
func profileLabel(sources []string) string {
	if len(sources) != 1 || sources[0] == "" || sources[0] == "-" {
		return ""
	}

	name := filepath.Base(sources[0])
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return pkg.SanitizeLabel(name)
}

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start starts profiling if configured, namespacing output under a
// subdirectory named after sources (see [profileLabel]).
func (f pprofConfig) start(ctx context.Context, sources []string) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	label := profileLabel(sources)

	log.DebugContext(ctx, "pprof start",
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
		slog.String("label", label),
	)

	// Create base config and apply options
	var cfg profile.Config = func() (string, string, bool) {
		return "", "", false
	}

	cfg = profile.WithMode(f.Mode)(cfg)
	cfg = profile.WithPath(f.Dir)(cfg)
	cfg = profile.WithLabel(label)(cfg)
	cfg = profile.WithQuiet(true)(cfg)
	profiler := cfg.Start()

	return func() {
		log.DebugContext(ctx, "pprof stop",
			slog.String("mode", f.Mode),
			slog.String("dir", f.Dir),
		)
		profiler.Stop()
	}
}
