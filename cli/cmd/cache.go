package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/splitbrain/lessgo/internal/lessparse"
	"github.com/splitbrain/lessgo/less"
	"github.com/splitbrain/lessgo/log"
	"github.com/splitbrain/lessgo/pkg"
)

// Cache manages the "<out>.meta" sidecar cache record for a compiled
// output file (spec §6.1/§6.4 cached_compile/checked_cached_compile).
type Cache struct {
	Build CacheBuild `cmd:"" help:"Compile using the cache, rebuilding only if stale"`
	Show  CacheShow  `cmd:"" help:"Print the cache record for an output file"`
	Clear CacheClear `cmd:"" help:"Remove the cache record for an output file"`
}

// CacheBuild compiles inPath to outPath, consulting and updating the
// "<out>.meta" cache record.
type CacheBuild struct {
	Source string `arg:"" help:"Input LESS source file"  name:"source"`
	Output string `arg:"" help:"Output CSS file"          name:"output"`

	Force bool `help:"Ignore the cache record and force recompilation" short:"f"`
}

func (x *CacheBuild) Run(ctx context.Context) error {
	compiler, err := less.NewCompiler(lessparse.New())
	if err != nil {
		return err
	}

	_, err = compiler.CheckedCachedCompile(x.Source, x.Output, x.Force)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "cache build", slog.String("source", x.Source), slog.String("output", x.Output))

	return nil
}

// CacheShow prints the JSON cache record (without the compiled CSS body)
// for the given output file.
type CacheShow struct {
	Output string `arg:"" help:"Output CSS file whose cache record to show" name:"output"`
}

func (x *CacheShow) Run(ctx context.Context) error {
	data, err := os.ReadFile(x.Output + pkg.MetaSuffix)
	if err != nil {
		return ErrReadSource.Wrap(err).With(slog.String("file", x.Output+pkg.MetaSuffix))
	}

	var rec less.CacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return ErrCacheCorrupt.Wrap(err).With(slog.String("file", x.Output+pkg.MetaSuffix))
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = os.Stdout.Write(append(out, '\n'))

	return err
}

// CacheClear removes the "<out>.meta" cache record, forcing the next
// cached compile to start fresh.
type CacheClear struct {
	Output string `arg:"" help:"Output CSS file whose cache record to clear" name:"output"`
}

func (x *CacheClear) Run(ctx context.Context) error {
	err := os.Remove(x.Output + pkg.MetaSuffix)
	if err != nil && !os.IsNotExist(err) {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", x.Output+pkg.MetaSuffix))
	}

	log.DebugContext(ctx, "cache clear", slog.String("output", x.Output))

	return nil
}
