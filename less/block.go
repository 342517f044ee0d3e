package less

import (
	"log/slog"
	"strings"

	"github.com/splitbrain/lessgo/internal/lesserr"
)

// compileBlock dispatches on block type, per spec §4.5.
func (c *Compiler) compileBlock(parentFrame *Frame, b, callSite *Block) (*OutputBlock, error) {
	c.logger.DebugContext(c.ctx(), "compile block", slog.String("type", b.Type.String()), slog.Uint64("id", b.ID))

	switch b.Type {
	case BlockRoot:
		frame := parentFrame.Push(b)
		out := NewOutputBlock(BlockRoot, nil)

		if err := c.compileProps(frame, b, out); err != nil {
			return nil, err
		}

		return out, nil

	case BlockRuleset:
		return c.compileRuleset(parentFrame, b)

	case BlockMedia:
		return c.compileMedia(parentFrame, b)

	case BlockDirective:
		return c.compileDirective(parentFrame, b)

	default:
		return nil, lesserr.New("unknown block type %v", b.Type)
	}
}

func (c *Compiler) compileRuleset(parentFrame *Frame, b *Block) (*OutputBlock, error) {
	frame := parentFrame.Push(b)

	selectors, err := c.reduceSelectors(frame, b.Tags)
	if err != nil {
		return nil, err
	}

	var ancestorSelectors []string

	for f := parentFrame; f != nil; f = f.Parent {
		if f.Selectors != nil {
			ancestorSelectors = f.Selectors

			break
		}
	}

	multiplied := multiplySelectors(ancestorSelectors, selectors)
	frame.Selectors = multiplied

	out := NewOutputBlock(BlockRuleset, nil)
	out.Selectors = multiplied

	if err := c.compileProps(frame, b, out); err != nil {
		return nil, err
	}

	b.Scope = frame

	return out, nil
}

func (c *Compiler) compileMedia(parentFrame *Frame, b *Block) (*OutputBlock, error) {
	frame := parentFrame.Push(b)

	queries, err := c.reduceQueries(frame, b.Queries)
	if err != nil {
		return nil, err
	}

	var ancestorQueries []string

	for f := parentFrame; f != nil; f = f.Parent {
		if f.Queries != nil {
			ancestorQueries = f.Queries

			break
		}
	}

	multiplied := multiplyMedia(ancestorQueries, queries)
	frame.Queries = multiplied

	out := NewOutputBlock(BlockMedia, nil)
	out.Queries = multiplied

	if err := c.compileProps(frame, b, out); err != nil {
		return nil, err
	}

	wrapOrphanMediaLines(out, nearestSelectors(parentFrame))

	return out, nil
}

func nearestSelectors(f *Frame) []string {
	for ; f != nil; f = f.Parent {
		if f.Selectors != nil {
			return f.Selectors
		}
	}

	return nil
}

func (c *Compiler) compileDirective(parentFrame *Frame, b *Block) (*OutputBlock, error) {
	frame := parentFrame.Push(b)

	val, err := c.reduce(frame, b.DirVal, false)
	if err != nil {
		return nil, err
	}

	out := NewOutputBlock(BlockDirective, nil)
	out.Name = b.Name
	if val != nil {
		out.DirVal = stringify(val)
	}

	if err := c.compileProps(frame, b, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Compiler) reduceSelectors(frame *Frame, tags []Value) ([]string, error) {
	out := make([]string, len(tags))

	for i, t := range tags {
		v, err := c.reduce(frame, t, false)
		if err != nil {
			return nil, err
		}

		out[i] = stringify(v)
	}

	return out, nil
}

func (c *Compiler) reduceQueries(frame *Frame, queries []Value) ([]string, error) {
	out := make([]string, len(queries))

	for i, q := range queries {
		v, err := c.reduce(frame, q, false)
		if err != nil {
			return nil, err
		}

		out[i] = stringify(v)
	}

	return out, nil
}

// multiplySelectors implements §4.5.1: the "&" parent-selector expansion,
// Cartesian over (parent, child) pairs. With no parents, selectors are
// returned as-is (any "&" inside them is replaced with "").
func multiplySelectors(parents, children []string) []string {
	if len(parents) == 0 {
		out := make([]string, len(children))

		for i, child := range children {
			out[i] = strings.TrimSpace(strings.ReplaceAll(child, "&", ""))
		}

		return out
	}

	var out []string

	for _, parent := range parents {
		for _, child := range children {
			count := strings.Count(child, "&")
			if count > 0 {
				out = append(out, strings.TrimSpace(strings.ReplaceAll(child, "&", parent)))
			} else {
				out = append(out, strings.TrimSpace(parent)+" "+strings.TrimSpace(child))
			}
		}
	}

	return out
}

// multiplyMedia Cartesian-ANDs an enclosing media ancestor's queries with
// this block's own, per §4.5.
func multiplyMedia(ancestor, own []string) []string {
	if len(ancestor) == 0 {
		return own
	}

	if len(own) == 0 {
		return ancestor
	}

	out := make([]string, 0, len(ancestor)*len(own))

	for _, a := range ancestor {
		for _, o := range own {
			out = append(out, a+" and "+o)
		}
	}

	return out
}

// wrapOrphanMediaLines wraps any lines emitted directly into a media
// output block (rather than into a nested ruleset) in an inner output
// block using the closest enclosing selectors, per §4.5.
func wrapOrphanMediaLines(out *OutputBlock, selectors []string) {
	if len(out.Lines) == 0 || len(selectors) == 0 {
		return
	}

	inner := &OutputBlock{Type: BlockRuleset, Selectors: selectors, Lines: out.Lines, Parent: out}
	out.Lines = nil
	out.Children = append([]*OutputBlock{inner}, out.Children...)
}
