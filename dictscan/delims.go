package dictscan

// isWhitespace reports whether b is one of the PDF whitespace bytes.
func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

// isDelimiter reports whether b is one of the PDF delimiter bytes that ends
// a bare token (name or atom) when scanning forward.
func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func skipWhitespace(data []byte, i int) int {
	for i < len(data) && isWhitespace(data[i]) {
		i++
	}
	return i
}

// isNameTerminator reports whether b ends a /Name token.
func isNameTerminator(b byte) bool {
	return isWhitespace(b) || isDelimiter(b)
}

// isAtomTerminator reports whether b ends a bare atom (number, boolean,
// null, or "N G R" reference).
func isAtomTerminator(b byte) bool {
	return isWhitespace(b) || isDelimiter(b)
}
