package less

import (
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/splitbrain/lessgo/internal/lesserr"
)

// findBlocks resolves path (a dotted/hashed mixin or ruleset name already
// split into segments) against start and its ancestors, per spec §4.4.1.
// keepLast restricts the result to the last matching candidate, the
// ruleset-call ("$name") behavior.
func (c *Compiler) findBlocks(frame *Frame, start *Block, path []string, args []Value, kwargs map[string]Value, keepLast bool) ([]*Block, error) {
	seen := make(map[uint64]bool)

	matches, err := c.findBlocksNode(frame, start, start, path, args, kwargs, seen)
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return nil, c.undefinedError(path)
	}

	c.logger.Subject(strings.Join(path, ".")).DebugContext(c.ctx(), "mixin resolved",
		slog.Int("matches", len(matches)),
		slog.Bool("keep-last", keepLast),
	)

	if keepLast {
		return matches[len(matches)-1:], nil
	}

	return matches, nil
}

func (c *Compiler) undefinedError(path []string) error {
	name := strings.Join(path, ".")

	suggestion := c.suggestName(path[0])

	c.logger.Subject(name).WarnContext(c.ctx(), "mixin or ruleset undefined",
		slog.String("suggestion", suggestion),
	)

	if suggestion != "" {
		return lesserr.New("%s is undefined (did you mean %s?)", name, suggestion)
	}

	return lesserr.New("%s is undefined", name)
}

// suggestName fuzzy-matches name against every mixin/ruleset name declared
// anywhere in the compiled document, for the error message's "did you
// mean" hint.
func (c *Compiler) suggestName(name string) string {
	if len(c.knownNames) == 0 {
		return ""
	}

	results := fuzzy.Find(name, c.knownNames)
	if len(results) == 0 {
		return ""
	}

	return c.knownNames[results[0].Index]
}

func (c *Compiler) findBlocksNode(frame *Frame, node, caller *Block, path []string, args []Value, kwargs map[string]Value, seen map[uint64]bool) ([]*Block, error) {
	candidates := node.Children[path[0]]

	var matched []*Block

	if len(path) == 1 {
		for _, cand := range candidates {
			if seen[cand.ID] {
				continue
			}

			ok, err := c.patternMatch(frame, cand, args, kwargs)
			if err != nil {
				return nil, err
			}

			if ok {
				matched = append(matched, cand)
			}
		}
	} else {
		for _, cand := range candidates {
			if seen[cand.ID] {
				continue
			}

			seen[cand.ID] = true

			sub, err := c.findBlocksNode(frame, cand, caller, path[1:], args, kwargs, seen)
			if err != nil {
				return nil, err
			}

			matched = append(matched, sub...)
		}
	}

	if len(matched) > 0 {
		return matched, nil
	}

	if node.Parent == nil || node.Parent == node {
		return nil, nil
	}

	return c.findBlocksNode(frame, node.Parent, caller, path, args, kwargs, seen)
}

// patternMatch implements §4.4.2: arity- and value-based matching with
// guard evaluation.
func (c *Compiler) patternMatch(frame *Frame, cand *Block, args []Value, kwargs map[string]Value) (bool, error) {
	if len(cand.Args) == 0 {
		if len(args) != 0 && !cand.IsVararg {
			return false, nil
		}
	} else {
		positional := make([]Value, len(args))
		copy(positional, args)

		idx := 0

		for _, spec := range cand.Args {
			if _, ok := kwargs[spec.Name]; ok && spec.Kind == ArgNamed {
				continue
			}

			switch spec.Kind {
			case ArgLit:
				if idx >= len(positional) {
					return false, nil
				}

				if !ValuesEqual(positional[idx], spec.Lit) {
					return false, nil
				}

				idx++
			case ArgRest:
				idx = len(positional)
			case ArgNamed:
				if idx < len(positional) {
					idx++
				} else if spec.Default == nil {
					return false, nil
				}
			}
		}

		if !cand.IsVararg && len(cand.Args) < len(positional) {
			return false, nil
		}
	}

	if len(cand.Guards) == 0 {
		return true, nil
	}

	for _, conj := range cand.Guards {
		guardFrame := frame.Push(cand)

		if err := c.zipSetArgs(guardFrame, cand, args, kwargs); err != nil {
			continue
		}

		pass := true

		for _, clause := range conj {
			v, err := c.reduce(guardFrame, clause.Expr, true)
			if err != nil {
				pass = false

				break
			}

			ok := IsTruthy(v)
			if clause.Negate {
				ok = !ok
			}

			if !ok {
				pass = false

				break
			}
		}

		if pass {
			return true, nil
		}
	}

	return false, nil
}

// zipSetArgs binds cand's declared arguments on frame, per spec §4.4.3.
func (c *Compiler) zipSetArgs(frame *Frame, cand *Block, args []Value, kwargs map[string]Value) error {
	orderedIdx := 0

	for _, spec := range cand.Args {
		switch spec.Kind {
		case ArgNamed:
			if v, ok := kwargs[spec.Name]; ok {
				reduced, err := c.reduce(frame, v, false)
				if err != nil {
					return err
				}

				frame.Set(spec.Name, reduced)

				continue
			}

			if orderedIdx < len(args) {
				reduced, err := c.reduce(frame, args[orderedIdx], false)
				if err != nil {
					return err
				}

				frame.Set(spec.Name, reduced)
				orderedIdx++

				continue
			}

			if spec.Default != nil {
				reduced, err := c.reduce(frame, spec.Default, false)
				if err != nil {
					return err
				}

				frame.Set(spec.Name, reduced)

				continue
			}

			return lesserr.New("argument %s is required", spec.Name)

		case ArgLit:
			if orderedIdx < len(args) {
				orderedIdx++
			}

		case ArgRest:
			rest := args[min(orderedIdx, len(args)):]
			frame.Set(spec.Name, List{Delim: " ", Items: append([]Value{}, rest...)})
			orderedIdx = len(args)
		}
	}

	frame.Arguments = append([]Value{}, args...)

	return nil
}
