package less

import (
	"os"
	"strings"
	"time"

	"github.com/splitbrain/lessgo/internal/lesserr"
)

// compileProps sorts b's props per §4.5.2, compiles each in order, and
// deduplicates the resulting output lines per §4.5.4.
func (c *Compiler) compileProps(frame *Frame, b *Block, out *OutputBlock) error {
	ordered := sortProps(b.Props)

	for _, p := range ordered {
		if err := c.compileProp(frame, b, p, out); err != nil {
			return err
		}
	}

	dedupLines(out)

	return nil
}

// sortProps implements §4.5.2: variable assignments and imports are moved
// ahead of other props; variables are prepended twice (once before
// imports, once after) so both pre-import and post-import references to
// the same name work; comments and non-assign props stick to the next
// following statement; each import prop gets a fresh id and a paired
// import_mixin placeholder left at its original position.
func sortProps(props []*Prop) []*Prop {
	var (
		varAssigns []*Prop
		imports    []*Prop
		rest       []*Prop
	)

	for _, p := range props {
		switch {
		case p.Kind == PropAssign && strings.HasPrefix(p.Name, "@"):
			varAssigns = append(varAssigns, p)
		case p.Kind == PropImport:
			imports = append(imports, withImportID(p))
		default:
			rest = append(rest, p)
		}
	}

	ordered := make([]*Prop, 0, len(varAssigns)*2+len(imports)+len(rest))
	ordered = append(ordered, varAssigns...)
	ordered = append(ordered, imports...)
	ordered = append(ordered, varAssigns...)
	ordered = append(ordered, rest...)

	return ordered
}

func withImportID(p *Prop) *Prop {
	if p.ImportID == 0 {
		p.ImportID = newBlockID()
	}

	return p
}

// compileProp implements §4.5.3.
func (c *Compiler) compileProp(frame *Frame, owner *Block, p *Prop, out *OutputBlock) error {
	switch p.Kind {
	case PropAssign:
		if strings.HasPrefix(p.Name, "@") {
			v, err := c.reduce(frame, p.Value, false)
			if err != nil {
				return err
			}

			frame.Set(p.Name, v)

			return nil
		}

		v, err := c.reduce(frame, p.Value, false)
		if err != nil {
			return err
		}

		out.Lines = append(out.Lines, OutputLine{Text: c.formatter.Property(p.Name, renderValue(v, c.formatter.CompressColors()))})

		return nil

	case PropBlock:
		child, err := c.compileBlock(frame, p.Child, owner)
		if err != nil {
			return err
		}

		child.Parent = out
		out.Children = append(out.Children, child)

		return nil

	case PropCall:
		return c.compileCall(frame, owner, p, out)

	case PropRaw:
		out.Lines = append(out.Lines, OutputLine{Text: p.Text})

		return nil

	case PropComment:
		out.Lines = append(out.Lines, OutputLine{Text: p.Text, IsComment: true})

		return nil

	case PropDirective:
		v, err := c.reduce(frame, p.Value, false)
		if err != nil {
			return err
		}

		out.Lines = append(out.Lines, OutputLine{Text: "@" + p.Name + " " + renderValue(v, c.formatter.CompressColors()) + ";"})

		return nil

	case PropImport:
		return c.compileImport(frame, owner, p, out)

	case PropImportMixin:
		return c.compileImportMixin(frame, owner, p, out)

	default:
		return lesserr.New("unknown prop kind %v", p.Kind)
	}
}

// compileCall implements the ruleset/mixin-call branch of §4.5.3.
func (c *Compiler) compileCall(frame *Frame, owner *Block, p *Prop, out *OutputBlock) error {
	args := make([]Value, len(p.Args))

	for i, a := range p.Args {
		v, err := c.reduce(frame, a, false)
		if err != nil {
			return err
		}

		args[i] = v
	}

	kwargs := make(map[string]Value, len(p.KwArgs))

	for k, v := range p.KwArgs {
		rv, err := c.reduce(frame, v, false)
		if err != nil {
			return err
		}

		kwargs[k] = rv
	}

	matches, err := c.findBlocks(frame, owner, p.Path, args, kwargs, p.IsRuleset)
	if err != nil {
		return err
	}

	for _, mixin := range matches {
		if mixin == owner {
			continue
		}

		callFrame := frame
		if mixin.Scope != nil {
			callFrame = frame.Push(owner)
			callFrame.StoreParent = mixin.Scope
		} else {
			callFrame = frame.Push(owner)
		}

		if err := c.zipSetArgs(callFrame, mixin, args, kwargs); err != nil {
			return err
		}

		originalParent := mixin.Parent
		mixin.Parent = owner

		err := c.compileMixinProps(callFrame, mixin, p.Suffix, out)

		mixin.Parent = originalParent

		if err != nil {
			return err
		}
	}

	return nil
}

// compileMixinProps compiles a called mixin's props into the caller's
// output block, wrapping each emitted assign's value with p.Suffix inside
// a space-joined list when a trailing suffix (e.g. "!important") was
// given.
func (c *Compiler) compileMixinProps(frame *Frame, mixin *Block, suffix string, out *OutputBlock) error {
	if suffix == "" {
		return c.compileProps(frame, mixin, out)
	}

	tmp := NewOutputBlock(out.Type, nil)
	if err := c.compileProps(frame, mixin, tmp); err != nil {
		return err
	}

	for _, line := range tmp.Lines {
		if line.IsComment {
			out.Lines = append(out.Lines, line)

			continue
		}

		out.Lines = append(out.Lines, OutputLine{Text: strings.TrimSuffix(line.Text, ";") + " " + suffix + ";"})
	}

	out.Children = append(out.Children, tmp.Children...)

	return nil
}

func (c *Compiler) compileImport(frame *Frame, owner *Block, p *Prop, out *OutputBlock) error {
	if !c.importsEnabled {
		out.Lines = append(out.Lines, OutputLine{Text: "/* import disabled */"})

		return nil
	}

	url, err := c.reduce(frame, p.Value, false)
	if err != nil {
		return err
	}

	urlText := stringify(url)

	if strings.HasSuffix(urlText, ".css") {
		out.Lines = append(out.Lines, OutputLine{Text: "@import " + urlText + ";"})

		return nil
	}

	path := c.findImport(urlText)
	if path == "" {
		out.Lines = append(out.Lines, OutputLine{Text: "@import " + urlText + ";"})

		return nil
	}

	canon := canonicalPath(path)
	if _, already := c.allParsedFiles[canon]; already {
		// Import cycle: resolve to a no-op, per spec §3.4.
		if frame.Imports == nil {
			frame.Imports = map[uint64]*importRecord{}
		}

		frame.Imports[p.ImportID] = &importRecord{resolved: true}

		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return lesserr.New("import %s: %v", urlText, err)
	}

	modTime := time.Now()

	if info, statErr := os.Stat(path); statErr == nil {
		modTime = info.ModTime()
	}

	c.allParsedFiles[canon] = modTime

	importedRoot, err := c.parser.Parse(path, string(data))
	if err != nil {
		return err
	}

	sortedImported := sortProps(importedRoot.Props)

	split := 0

	for i, ip := range sortedImported {
		if ip.Kind == PropAssign && strings.HasPrefix(ip.Name, "@") {
			split = i + 1

			continue
		}

		break
	}

	top := sortedImported[:split]
	bottom := sortedImported[split:]

	for _, ip := range top {
		if err := c.compileProp(frame, importedRoot, ip, out); err != nil {
			return err
		}
	}

	if frame.Imports == nil {
		frame.Imports = map[uint64]*importRecord{}
	}

	frame.Imports[p.ImportID] = &importRecord{bottomProps: bottom, importDir: path, resolved: true}

	return nil
}

func (c *Compiler) compileImportMixin(frame *Frame, owner *Block, p *Prop, out *OutputBlock) error {
	rec := lookupImportRecord(frame, p.ImportID)
	if rec == nil || !rec.resolved {
		out.Lines = append(out.Lines, OutputLine{Text: "@import " + p.ImportPath + ";"})

		return nil
	}

	for _, bp := range rec.bottomProps {
		if err := c.compileProp(frame, owner, bp, out); err != nil {
			return err
		}
	}

	return nil
}

func lookupImportRecord(frame *Frame, id uint64) *importRecord {
	for f := frame; f != nil; f = f.Parent {
		if rec, ok := f.Imports[id]; ok {
			return rec
		}
	}

	return nil
}
