package less

import (
	"fmt"
	"strings"
)

// Formatter stringifies an [OutputBlock] tree to CSS text, per spec §6.3.
type Formatter interface {
	// Property renders one declaration line, e.g. "color: red;".
	Property(name, value string) string
	// Block writes ob (and its children) to sb in this formatter's style.
	Block(sb *strings.Builder, ob *OutputBlock, depth int)
	// CompressColors reports whether the value stringifier should prefer
	// the shortest hex form for [Color] values. [RawColor] literals are
	// written as given whatever this reports.
	CompressColors() bool
}

// lessjsFormatter is the default style: one selector per declared rule,
// selectors joined with ",\n", bodies on their own indented lines —
// matching less.js's own default output.
type lessjsFormatter struct{}

func (lessjsFormatter) CompressColors() bool { return false }

func (lessjsFormatter) Property(name, value string) string {
	return fmt.Sprintf("%s: %s;", name, value)
}

func (f lessjsFormatter) Block(sb *strings.Builder, ob *OutputBlock, depth int) {
	writeBlockIndented(sb, ob, depth, ",\n", "  ", "\n")
}

// classicFormatter matches the older less.js "compact selector" style:
// selectors joined with ", " on one line.
type classicFormatter struct{}

func (classicFormatter) CompressColors() bool { return false }

func (classicFormatter) Property(name, value string) string {
	return fmt.Sprintf("%s: %s;", name, value)
}

func (f classicFormatter) Block(sb *strings.Builder, ob *OutputBlock, depth int) {
	writeBlockIndented(sb, ob, depth, ", ", "  ", "\n")
}

// compressedFormatter strips all non-essential whitespace and prefers
// short hex colors.
type compressedFormatter struct{}

func (compressedFormatter) CompressColors() bool { return true }

func (compressedFormatter) Property(name, value string) string {
	return fmt.Sprintf("%s:%s;", name, value)
}

func (f compressedFormatter) Block(sb *strings.Builder, ob *OutputBlock, depth int) {
	writeCompressed(sb, ob)
}

func writeBlockIndented(sb *strings.Builder, ob *OutputBlock, depth int, selSep, indentUnit, lineEnd string) {
	indent := strings.Repeat(indentUnit, depth)

	switch ob.Type {
	case BlockMedia:
		sb.WriteString(indent + "@media " + strings.Join(ob.Queries, " and ") + " {" + lineEnd)
	case BlockDirective:
		sb.WriteString(indent + "@" + ob.Name + " " + ob.DirVal + " {" + lineEnd)
	case BlockRoot:
		// no wrapper
	default:
		if len(ob.Selectors) > 0 {
			sb.WriteString(indent + strings.Join(ob.Selectors, selSep) + " {" + lineEnd)
		}
	}

	bodyIndent := indent
	if ob.Type != BlockRoot {
		bodyIndent = indent + indentUnit
	}

	for _, line := range ob.Lines {
		sb.WriteString(bodyIndent + line.Text + lineEnd)
	}

	childDepth := depth
	if ob.Type != BlockRoot {
		childDepth = depth + 1
	}

	for _, child := range ob.Children {
		writeBlockIndented(sb, child, childDepth, selSep, indentUnit, lineEnd)
	}

	if ob.Type != BlockRoot && len(ob.Selectors) > 0 || ob.Type == BlockMedia || ob.Type == BlockDirective {
		sb.WriteString(indent + "}" + lineEnd)
	}
}

func writeCompressed(sb *strings.Builder, ob *OutputBlock) {
	switch ob.Type {
	case BlockMedia:
		sb.WriteString("@media " + strings.Join(ob.Queries, " and ") + "{")
	case BlockDirective:
		sb.WriteString("@" + ob.Name + " " + ob.DirVal + "{")
	case BlockRoot:
	default:
		if len(ob.Selectors) > 0 {
			sb.WriteString(strings.Join(ob.Selectors, ","))
			sb.WriteString("{")
		}
	}

	for _, line := range ob.Lines {
		if line.IsComment {
			continue
		}

		sb.WriteString(line.Text)
	}

	for _, child := range ob.Children {
		writeCompressed(sb, child)
	}

	if ob.Type != BlockRoot && len(ob.Selectors) > 0 || ob.Type == BlockMedia || ob.Type == BlockDirective {
		sb.WriteString("}")
	}
}

// renderValue stringifies v for output, honoring compress (a formatter's
// CompressColors()) for any [Color] reached directly or through a [List].
// Other value kinds render the same regardless of compress.
func renderValue(v Value, compress bool) string {
	switch vv := v.(type) {
	case String:
		return vv.Text()
	case Color:
		return colorHexString(vv, compress)
	case List:
		parts := make([]string, len(vv.Items))
		for i, it := range vv.Items {
			parts[i] = renderValue(it, compress)
		}

		return strings.Join(parts, vv.Delim)
	default:
		return v.String()
	}
}

// newFormatter resolves a formatter by name, per spec §6.1 ("compressed" |
// "classic" | "lessjs", default "lessjs").
func newFormatter(name string) (Formatter, error) {
	switch name {
	case "", "lessjs":
		return lessjsFormatter{}, nil
	case "classic":
		return classicFormatter{}, nil
	case "compressed":
		return compressedFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown formatter %q", name)
	}
}
