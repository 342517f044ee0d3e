package less

import (
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// debugNode is a plain-data mirror of an [OutputBlock], used only for
// debug dumps (the "fmt" CLI subcommand) — never round-tripped back into a
// Block.
type debugNode struct {
	Type      string      `json:"type" yaml:"type"`
	Selectors []string    `json:"selectors,omitempty" yaml:"selectors,omitempty"`
	Queries   []string    `json:"queries,omitempty" yaml:"queries,omitempty"`
	Name      string      `json:"name,omitempty" yaml:"name,omitempty"`
	Lines     []string    `json:"lines,omitempty" yaml:"lines,omitempty"`
	Children  []debugNode `json:"children,omitempty" yaml:"children,omitempty"`
}

func toDebugNode(ob *OutputBlock) debugNode {
	lines := make([]string, len(ob.Lines))
	for i, l := range ob.Lines {
		lines[i] = l.Text
	}

	children := make([]debugNode, len(ob.Children))
	for i, c := range ob.Children {
		children[i] = toDebugNode(c)
	}

	return debugNode{
		Type:      ob.Type.String(),
		Selectors: ob.Selectors,
		Queries:   ob.Queries,
		Name:      ob.Name,
		Lines:     lines,
		Children:  children,
	}
}

// DumpJSON renders the compiled output tree (before formatting) as
// indented JSON, for "fmt --format=json" debugging.
func DumpJSON(ob *OutputBlock) (string, error) {
	data, err := json.MarshalIndent(toDebugNode(ob), "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// DumpYAML renders the compiled output tree as YAML, for "fmt
// --format=yaml" debugging.
func DumpYAML(ob *OutputBlock) (string, error) {
	data, err := yaml.Marshal(toDebugNode(ob))
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// CompileDebug parses and compiles source like Compile but returns the
// output tree before formatting, for callers that want the dump
// representation instead of CSS text.
func (c *Compiler) CompileDebug(source, name string) (*OutputBlock, error) {
	root, err := c.parser.Parse(name, source)
	if err != nil {
		return nil, err
	}

	c.collectKnownNames(root)

	rootFrame := NewFrame(nil)
	for k, v := range c.variables {
		rootFrame.Set(k, v)
	}

	out, err := c.compileBlock(rootFrame, root, root)
	if err != nil {
		return nil, err
	}

	dedupLines(out)

	return out, nil
}
