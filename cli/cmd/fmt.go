package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/splitbrain/lessgo/internal/lessparse"
	"github.com/splitbrain/lessgo/less"
)

// Fmt parses LESS source and dumps the parsed-and-reduced output tree as
// JSON or YAML, for debugging a compilation without producing CSS.
type Fmt struct {
	Source []string `arg:"" default:"-" help:"Input source file(s) or '-' for stdin" name:"source"`

	Format string   `default:"json"  enum:"json,yaml" help:"Dump format"             short:"f"`
	Var    []string `help:"Set a variable as name=value (repeatable)"                short:"V"`
}

// Run executes the fmt command.
func (x *Fmt) Run(ctx context.Context) error {
	vars, err := parseVarFlags(x.Var)
	if err != nil {
		return err
	}

	compiler, err := less.NewCompiler(lessparse.New(), less.WithVariables(vars))
	if err != nil {
		return err
	}

	source, name, err := x.readSource()
	if err != nil {
		return ErrReadSource.Wrap(err)
	}

	out, err := compiler.CompileDebug(source, name)
	if err != nil {
		return err
	}

	var dump string

	switch x.Format {
	case "yaml":
		dump, err = less.DumpYAML(out)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}
	default:
		dump, err = less.DumpJSON(out)
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}
	}

	_, err = fmt.Println(dump)

	return err
}

// readSource reads x.Source (files and/or stdin, "-") as a single
// concatenated LESS unit, returning the combined text and a name suitable
// for error/import reporting.
func (x *Fmt) readSource() (source, name string, err error) {
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
