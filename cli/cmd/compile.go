package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/splitbrain/lessgo/internal/lessparse"
	"github.com/splitbrain/lessgo/less"
	"github.com/splitbrain/lessgo/log"
)

// Compile reads one or more LESS sources, compiles them, and writes the
// resulting CSS to stdout or an output file.
type Compile struct {
	Source []string `arg:"" default:"-" help:"Input source file(s) or '-' for stdin" name:"source"`

	Output           string   `help:"Write CSS to this file instead of stdout"                             short:"o"`
	Format           string   `default:"lessjs" enum:"lessjs,classic,compressed" help:"Output formatter"   short:"f"`
	PreserveComments bool     `help:"Preserve comments in output"                negatable:""`
	ImportDir        []string `help:"Additional @import search director(y/ies)"                            short:"I"`
	NoImports        bool     `help:"Disable @import resolution entirely"`
	Var              []string `help:"Set a variable as name=value (repeatable)"                            short:"V"`

	Checked bool `help:"Only recompile when source is newer than output" short:"c"`
}

// Run executes the compile command.
func (x *Compile) Run(ctx context.Context) (err error) {
	vars, err := parseVarFlags(x.Var)
	if err != nil {
		return err
	}

	opts := []less.Option{
		less.WithFormatter(x.Format),
		less.WithPreserveComments(x.PreserveComments),
		less.WithVariables(vars),
	}
	for _, dir := range x.ImportDir {
		opts = append(opts, less.WithImportDir(dir))
	}

	if x.NoImports {
		opts = append(opts, less.WithImportsDisabled())
	}

	compiler, err := less.NewCompiler(lessparse.New(), opts...)
	if err != nil {
		return err
	}

	if x.Checked && x.Output != "" && len(x.Source) == 1 && x.Source[0] != stdinSource {
		changed, err := compiler.CheckedCompile(x.Source[0], x.Output)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "checked compile",
			slog.String("source", x.Source[0]),
			slog.String("output", x.Output),
			slog.Bool("recompiled", changed),
		)

		return nil
	}

	source, name, err := x.readSource()
	if err != nil {
		return ErrReadSource.Wrap(err).With(slog.Any("source", x.Source))
	}

	css, err := compiler.Compile(source, name)
	if err != nil {
		return err
	}

	if x.Output == "" {
		fmt.Println(css)

		return nil
	}

	if err := os.WriteFile(x.Output, []byte(css), 0o644); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("file", x.Output))
	}

	log.DebugContext(ctx, "compiled", slog.String("output", x.Output), slog.Int("bytes", len(css)))

	return nil
}

// readSource reads x.Source (files and/or stdin, "-") as a single
// concatenated LESS unit, returning the combined text and a name suitable
// for error/import reporting.
func (x *Compile) readSource() (source, name string, err error) {
	if len(x.Source) == 1 && x.Source[0] != stdinSource {
		data, err := os.ReadFile(x.Source[0])
		if err != nil {
			return "", "", err
		}

		return string(data), x.Source[0], nil
	}

	srcs := buildSourceFiles(x.Source)
	if srcs == nil {
		return "", "", fmt.Errorf("no source provided")
	}

	data, err := io.ReadAll(srcs)
	if err != nil {
		return "", "", err
	}

	return string(data), strings.Join(x.Source, "+"), nil
}

// parseVarFlags parses "name=value" pairs into a variable map suitable for
// [less.WithVariables]. Each value is wrapped verbatim as a [less.Keyword];
// it is not parsed as a number, string or expression.
func parseVarFlags(pairs []string) (map[string]less.Value, error) {
	vars := make(map[string]less.Value, len(pairs))

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --var %q: expected name=value", pair)
		}

		vars[name] = less.Keyword{Name: value}
	}

	return vars, nil
}
