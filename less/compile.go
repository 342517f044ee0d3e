package less

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/splitbrain/lessgo/internal/lesserr"
	"github.com/splitbrain/lessgo/log"
	"github.com/splitbrain/lessgo/pkg"
)

// ctx returns the context used for the Compiler's own debug/warn logging
// calls, which have no caller-supplied context to thread through (spec §5:
// Compile's public signature takes no context.Context).
func (c *Compiler) ctx() context.Context {
	return context.Background()
}

// Parser is the external collaborator that turns LESS source text into a
// root [Block] tree (spec §6.2). lessgo's own hand-written parser lives in
// internal/lessparse; any implementation satisfying this interface can be
// substituted.
type Parser interface {
	Parse(name, source string) (*Block, error)
	SetWriteComments(bool)
}

// Compiler is the single stateful evaluator instance described by spec §5:
// it owns the environment stack, output scope, formatter, registered user
// functions and variables, import directories, and allParsedFiles. It is
// not safe for concurrent use by multiple goroutines; two concurrent
// compilations require two Compilers.
type Compiler struct {
	parser    Parser
	formatter Formatter

	preserveComments bool
	importsEnabled   bool
	importDirs       []string

	userFunctions map[string]functionImpl
	variables     map[string]Value
	knownNames    []string

	allParsedFiles map[string]time.Time

	nextImportID uint64

	logger *log.Logger
}

// config is the plain data a Compiler is built from; Option mutates a
// copy, mirroring the functional-option pattern used by [log.Option].
type config struct {
	formatterName    string
	preserveComments bool
	importsEnabled   bool
	importDirs       []string
	variables        map[string]Value
	logger           *log.Logger
}

// Option configures a [Compiler] at construction time.
type Option func(config) config

func defaultConfig() config {
	return config{
		formatterName:  "lessjs",
		importsEnabled: true,
		variables:      map[string]Value{},
		logger:         log.New(),
	}
}

// WithFormatter selects the output formatter by name ("lessjs", "classic",
// "compressed").
func WithFormatter(name string) Option {
	return func(c config) config { c.formatterName = name; return c }
}

// WithPreserveComments controls whether comments survive deduplication
// into the output.
func WithPreserveComments(preserve bool) Option {
	return func(c config) config { c.preserveComments = preserve; return c }
}

// WithImportDir appends a directory to the import search path.
func WithImportDir(dir string) Option {
	return func(c config) config { c.importDirs = append(c.importDirs, dir); return c }
}

// WithImportsDisabled turns every @import into the "/* import disabled */"
// passthrough, per spec §4.7.
func WithImportsDisabled() Option {
	return func(c config) config { c.importsEnabled = false; return c }
}

// WithVariables seeds the root frame's variable store.
func WithVariables(vars map[string]Value) Option {
	return func(c config) config {
		for k, v := range vars {
			c.variables[k] = v
		}

		return c
	}
}

// WithLogger overrides the Compiler's structured logger.
func WithLogger(l *log.Logger) Option {
	return func(c config) config { c.logger = l; return c }
}

// NewCompiler constructs a Compiler with the given options applied over
// the defaults (formatter "lessjs", imports enabled, no preserved
// comments).
func NewCompiler(parser Parser, opts ...Option) (*Compiler, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	formatter, err := newFormatter(cfg.formatterName)
	if err != nil {
		return nil, err
	}

	c := &Compiler{
		parser:         parser,
		formatter:      formatter,
		importsEnabled: cfg.importsEnabled,
		importDirs:     cfg.importDirs,
		variables:      cfg.variables,
		userFunctions:  map[string]functionImpl{},
		allParsedFiles: map[string]time.Time{},
		logger:         cfg.logger,
	}
	c.preserveComments = cfg.preserveComments
	parser.SetWriteComments(cfg.preserveComments)

	return c, nil
}

// SetFormatter implements spec §6.1.
func (c *Compiler) SetFormatter(name string) error {
	f, err := newFormatter(name)
	if err != nil {
		return err
	}

	c.formatter = f

	return nil
}

// SetPreserveComments implements spec §6.1.
func (c *Compiler) SetPreserveComments(preserve bool) {
	c.preserveComments = preserve
	c.parser.SetWriteComments(preserve)
}

// RegisterFunction implements spec §6.1. User functions shadow built-ins
// of the same name.
func (c *Compiler) RegisterFunction(name string, fn func(cc *Compiler, frame *Frame, args []Value) (Value, error)) {
	c.userFunctions[name] = functionImpl(fn)
}

// UnregisterFunction implements spec §6.1.
func (c *Compiler) UnregisterFunction(name string) {
	delete(c.userFunctions, name)
}

// SetVariables implements spec §6.1: merges mapping into the root frame's
// pre-seeded variables.
func (c *Compiler) SetVariables(vars map[string]Value) {
	for k, v := range vars {
		name := k
		if !strings.HasPrefix(name, "@") {
			name = "@" + name
		}

		c.variables[name] = v
	}
}

// UnsetVariable implements spec §6.1.
func (c *Compiler) UnsetVariable(name string) {
	if !strings.HasPrefix(name, "@") {
		name = "@" + name
	}

	delete(c.variables, name)
}

// SetImportDir implements spec §6.1: replaces the import search path.
func (c *Compiler) SetImportDir(dirs []string) {
	c.importDirs = append([]string{}, dirs...)
}

// AddImportDir implements spec §6.1: appends to the import search path.
func (c *Compiler) AddImportDir(dir string) {
	c.importDirs = append(c.importDirs, dir)
}

// AllParsedFiles implements spec §6.1.
func (c *Compiler) AllParsedFiles() map[string]time.Time {
	out := make(map[string]time.Time, len(c.allParsedFiles))
	for k, v := range c.allParsedFiles {
		out[k] = v
	}

	return out
}

// Compile implements spec §6.1: compiles source (whose canonical name, for
// error/import purposes, is name) and returns formatted CSS.
func (c *Compiler) Compile(source, name string) (string, error) {
	root, err := c.parser.Parse(name, source)
	if err != nil {
		return "", err
	}

	if name != "" {
		c.allParsedFiles[canonicalPath(name)] = time.Now()
	}

	c.collectKnownNames(root)

	rootFrame := NewFrame(nil)
	for k, v := range c.variables {
		rootFrame.Set(k, v)
	}

	out, err := c.compileBlock(rootFrame, root, root)
	if err != nil {
		return "", err
	}

	dedupLines(out)

	var sb strings.Builder
	c.formatter.Block(&sb, out, 0)

	return sb.String(), nil
}

// CompileFile implements spec §6.1. It returns the CSS compiled from
// inPath; if outPath is non-empty, the CSS is also written to outPath.
func (c *Compiler) CompileFile(inPath, outPath string) (string, error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return "", lesserr.New("reading %s: %v", inPath, err)
	}

	css, err := c.Compile(string(data), inPath)
	if err != nil {
		return "", err
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(css), 0o644); err != nil {
			return "", lesserr.New("writing %s: %v", outPath, err)
		}
	}

	return css, nil
}

// CheckedCompile implements spec §6.1: recompiles iff inPath is newer than
// outPath (or outPath doesn't exist).
func (c *Compiler) CheckedCompile(inPath, outPath string) (bool, error) {
	inInfo, err := os.Stat(inPath)
	if err != nil {
		return false, lesserr.New("stat %s: %v", inPath, err)
	}

	if outInfo, err := os.Stat(outPath); err == nil {
		if !inInfo.ModTime().After(outInfo.ModTime()) {
			return false, nil
		}
	}

	if _, err := c.CompileFile(inPath, outPath); err != nil {
		return false, err
	}

	return true, nil
}

// CacheRecord is the persisted compile-cache record, per spec §6.1/§6.4.
type CacheRecord struct {
	Root     string           `json:"root"`
	Files    map[string]int64 `json:"files"` // path -> unix mtime nanos
	Compiled string           `json:"compiled,omitempty"`
	Updated  bool             `json:"updated"`
}

// CachedCompile implements spec §6.1: rebuilds iff force, the record is
// missing Files, or any recorded file's on-disk mtime exceeds the
// recorded mtime.
func (c *Compiler) CachedCompile(inPath string, prior *CacheRecord, force bool) (*CacheRecord, error) {
	stale := force || prior == nil || prior.Files == nil

	if !stale {
		for path, recorded := range prior.Files {
			info, err := os.Stat(path)
			if err != nil || info.ModTime().UnixNano() > recorded {
				stale = true

				break
			}
		}
	}

	if !stale {
		c.logger.DebugContext(c.ctx(), "cache hit", slog.String("source", inPath))

		rec := *prior
		rec.Updated = false

		return &rec, nil
	}

	c.logger.DebugContext(c.ctx(), "cache miss", slog.String("source", inPath), slog.Bool("forced", force))

	css, err := c.CompileFile(inPath, "")
	if err != nil {
		return nil, err
	}

	files := make(map[string]int64, len(c.allParsedFiles))

	if info, err := os.Stat(inPath); err == nil {
		files[canonicalPath(inPath)] = info.ModTime().UnixNano()
	}

	for path := range c.allParsedFiles {
		if info, err := os.Stat(path); err == nil {
			files[path] = info.ModTime().UnixNano()
		}
	}

	return &CacheRecord{
		Root:     canonicalPath(inPath),
		Files:    files,
		Compiled: css,
		Updated:  true,
	}, nil
}

// CheckedCachedCompile implements spec §6.1: writes CSS to outPath and a
// sidecar "<out>.meta" holding the cache record without the Compiled
// field.
func (c *Compiler) CheckedCachedCompile(inPath, outPath string, force bool) (string, error) {
	metaPath := outPath + pkg.MetaSuffix

	var prior *CacheRecord

	if data, err := os.ReadFile(metaPath); err == nil {
		var rec CacheRecord
		if json.Unmarshal(data, &rec) == nil {
			prior = &rec
		}
	}

	rec, err := c.CachedCompile(inPath, prior, force)
	if err != nil {
		return "", err
	}

	if rec.Updated {
		if err := os.WriteFile(outPath, []byte(rec.Compiled), 0o644); err != nil {
			return "", lesserr.New("writing %s: %v", outPath, err)
		}

		sidecar := *rec
		sidecar.Compiled = ""

		data, err := json.MarshalIndent(sidecar, "", "  ")
		if err != nil {
			return "", lesserr.New("encoding cache record: %v", err)
		}

		if err := os.WriteFile(metaPath, data, 0o644); err != nil {
			return "", lesserr.New("writing %s: %v", metaPath, err)
		}

		return rec.Compiled, nil
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", lesserr.New("reading %s: %v", outPath, err)
	}

	return string(data), nil
}

func (c *Compiler) collectKnownNames(root *Block) {
	seen := map[string]bool{}

	var walk func(*Block)
	walk = func(b *Block) {
		for name := range b.Children {
			seen[name] = true
		}

		for _, children := range b.Children {
			for _, child := range children {
				walk(child)
			}
		}
	}

	walk(root)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)
	c.knownNames = names
}
