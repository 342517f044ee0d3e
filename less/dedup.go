package less

// dedupLines implements §4.5.4: walks out's own emitted lines in order;
// comment lines are buffered and placed before the next non-comment line,
// and when that line repeats an earlier one the buffered comments are
// spliced directly before the retained (first) occurrence instead of the
// duplicate. Trailing comments are appended at
// the end. Recurses into children, each deduplicated independently.
func dedupLines(out *OutputBlock) {
	var (
		result       []OutputLine
		commentBuf   []OutputLine
		firstIndexOf = map[string]int{}
	)

	for _, line := range out.Lines {
		if line.IsComment {
			commentBuf = append(commentBuf, line)

			continue
		}

		if idx, seen := firstIndexOf[line.Text]; seen {
			result = spliceBefore(result, idx, commentBuf)

			for k, v := range firstIndexOf {
				if v >= idx {
					firstIndexOf[k] = v + len(commentBuf)
				}
			}

			commentBuf = nil

			continue
		}

		result = append(result, commentBuf...)
		firstIndexOf[line.Text] = len(result)
		result = append(result, line)
		commentBuf = nil
	}

	result = append(result, commentBuf...)
	out.Lines = result

	for _, child := range out.Children {
		dedupLines(child)
	}
}

func spliceBefore(lines []OutputLine, idx int, insert []OutputLine) []OutputLine {
	if len(insert) == 0 {
		return lines
	}

	out := make([]OutputLine, 0, len(lines)+len(insert))
	out = append(out, lines[:idx]...)
	out = append(out, insert...)
	out = append(out, lines[idx:]...)

	return out
}
