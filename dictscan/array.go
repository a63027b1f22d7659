package dictscan

import (
	"fmt"
	"regexp"
)

func refPattern(ref string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(ref) + `\b`)
}

// AddRefToArray inserts ref into a "[ ... ]" array fragment, immediately
// before the closing "]" (or right after "[" if the array is empty),
// per spec 4.1 add_ref_to_array.
func AddRefToArray(arr []byte, ref string) []byte {
	open := -1
	for i, b := range arr {
		if b == '[' {
			open = i
			break
		}
	}
	close := -1
	for i := len(arr) - 1; i >= 0; i-- {
		if arr[i] == ']' {
			close = i
			break
		}
	}
	if open == -1 || close == -1 || close < open {
		return arr
	}

	inner := arr[open+1 : close]
	empty := len(skipWhitespaceTrimmed(inner)) == 0

	var insert []byte
	if empty {
		insert = []byte(ref)
	} else {
		insert = []byte(" " + ref)
	}

	out := make([]byte, 0, len(arr)+len(insert))
	out = append(out, arr[:close]...)
	out = append(out, insert...)
	out = append(out, arr[close:]...)
	return out
}

func skipWhitespaceTrimmed(b []byte) []byte {
	i, j := 0, len(b)
	for i < j && isWhitespace(b[i]) {
		i++
	}
	for j > i && isWhitespace(b[j-1]) {
		j--
	}
	return b[i:j]
}

// RemoveRefFromArray deletes the first occurrence of ref (matched on a
// \bN G R\b word boundary so "1 0 R" doesn't match inside "11 0 R") from a
// "[ ... ]" array fragment, collapsing the adjacent whitespace it leaves
// behind, per spec 4.1 remove_ref_from_array.
func RemoveRefFromArray(arr []byte, ref string) []byte {
	loc := refPattern(ref).FindIndex(arr)
	if loc == nil {
		return arr
	}
	start, end := loc[0], loc[1]

	// Absorb one adjacent whitespace byte (the one after the ref, or else
	// the one before it) so we don't leave a double space or a stray
	// leading space next to '['.
	for end < len(arr) && isWhitespace(arr[end]) {
		end++
		break
	}
	if end == loc[1] {
		for start > 0 && isWhitespace(arr[start-1]) {
			start--
			break
		}
	}

	out := make([]byte, 0, len(arr))
	out = append(out, arr[:start]...)
	out = append(out, arr[end:]...)
	return out
}

// AddRefToInlineArray adds ref to the array stored under /<key> in dict,
// whether that array is inline (a literal "[ ... ]" value) or missing
// entirely (in which case a new single-element array is created), per
// spec 4.1 add_ref_to_inline_array.
func AddRefToInlineArray(dict []byte, key string, ref string) []byte {
	tok, ok := ValueTokenAfter(dict, key)
	if !ok {
		return UpsertKeyValue(dict, key, []byte(fmt.Sprintf("[%s]", ref)))
	}
	if tok.Kind != TokenArray {
		return dict
	}
	newArr := AddRefToArray(tok.Bytes(dict), ref)
	return ReplaceKeyValue(dict, key, newArr)
}

// RemoveRefFromInlineArray removes ref from the array stored under /<key>
// in dict, per spec 4.1 remove_ref_from_inline_array.
func RemoveRefFromInlineArray(dict []byte, key string, ref string) []byte {
	tok, ok := ValueTokenAfter(dict, key)
	if !ok || tok.Kind != TokenArray {
		return dict
	}
	newArr := RemoveRefFromArray(tok.Bytes(dict), ref)
	return ReplaceKeyValue(dict, key, newArr)
}
