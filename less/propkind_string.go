package less

// String implements fmt.Stringer for PropKind, hand-written in the shape
// `stringer` would generate (see the `go:generate` directive on PropKind's
// declaration) since the toolchain isn't run as part of building this
// module.
func (k PropKind) String() string {
	switch k {
	case PropAssign:
		return "Assign"
	case PropBlock:
		return "Block"
	case PropCall:
		return "Call"
	case PropRaw:
		return "Raw"
	case PropComment:
		return "Comment"
	case PropDirective:
		return "Directive"
	case PropImport:
		return "Import"
	case PropImportMixin:
		return "ImportMixin"
	default:
		return "PropKind(?)"
	}
}
