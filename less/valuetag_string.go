package less

// String implements fmt.Stringer for ValueTag. Hand-written in the shape
// `stringer` would generate (see the `go:generate` directive on ValueTag's
// declaration) since the toolchain isn't run as part of building this
// module.
func (t ValueTag) String() string {
	switch t {
	case TagNumber:
		return "Number"
	case TagColor:
		return "Color"
	case TagRawColor:
		return "RawColor"
	case TagKeyword:
		return "Keyword"
	case TagString:
		return "String"
	case TagList:
		return "List"
	case TagFunction:
		return "Function"
	case TagExpression:
		return "Expression"
	case TagVariable:
		return "Variable"
	case TagInterpolate:
		return "Interpolate"
	case TagEscape:
		return "Escape"
	case TagUnary:
		return "Unary"
	default:
		return "ValueTag(?)"
	}
}
