package dictscan

import "bytes"

// EachDictionary returns the byte spans of every balanced "<< ... >>" region
// in data, at arbitrary nesting, per spec 4.1 each_dictionary. Only
// top-level (depth-1) regions are reported; a caller that needs a nested
// dictionary's body recurses into the returned slice.
func EachDictionary(data []byte) []Token {
	var out []Token
	i := 0
	for i < len(data) {
		if i+1 < len(data) && data[i] == '<' && data[i+1] == '<' {
			end, ok := ScanBalancedDict(data, i)
			if !ok {
				break
			}
			out = append(out, Token{Kind: TokenDict, Start: i, End: end})
			i = end
			continue
		}
		i++
	}
	return out
}

// FindKey reports whether key is present in dict, using the same
// delimiter-lookahead match as ValueTokenAfter.
func FindKey(dict []byte, key string) bool {
	_, ok := findKey(dict, key)
	return ok
}

// fullValueSpan is like scanToken but expands a TokenDict sentinel to the
// full nested dictionary span, since replace_key_value needs the exact
// extent of the value it is about to splice out.
func fullValueSpan(data []byte, start int) (Token, bool) {
	tok, ok := scanToken(data, start)
	if !ok {
		return Token{}, false
	}
	if tok.Kind == TokenDict {
		end, ok := ScanBalancedDict(data, tok.Start)
		if !ok {
			return Token{}, false
		}
		tok.End = end
	}
	return tok, true
}

// ReplaceKeyValue replaces the value of /<key> in dict with newToken's raw
// bytes, per spec 4.1 replace_key_value. On any failure to locate or
// bound the existing value, or if the result would no longer contain a
// balanced "<<"/">>" pair, it returns dict unchanged.
func ReplaceKeyValue(dict []byte, key string, newToken []byte) []byte {
	keyEnd, ok := findKey(dict, key)
	if !ok {
		return dict
	}
	valStart := skipWhitespace(dict, keyEnd)
	if valStart >= len(dict) {
		return dict
	}
	tok, ok := fullValueSpan(dict, valStart)
	if !ok {
		return dict
	}

	out := make([]byte, 0, len(dict)-(tok.End-tok.Start)+len(newToken))
	out = append(out, dict[:tok.Start]...)
	out = append(out, newToken...)
	out = append(out, dict[tok.End:]...)

	if !bytes.Contains(out, []byte("<<")) || !bytes.Contains(out, []byte(">>")) {
		return dict
	}
	return out
}

// UpsertKeyValue replaces /<key>'s value if present, otherwise inserts
// "/<key> <token>" immediately after the dictionary's opening "<<", per
// spec 4.1 upsert_key_value.
func UpsertKeyValue(dict []byte, key string, token []byte) []byte {
	if FindKey(dict, key) {
		return ReplaceKeyValue(dict, key, token)
	}
	open := bytes.Index(dict, []byte("<<"))
	if open == -1 {
		return dict
	}
	insertAt := open + 2
	insert := []byte(" /" + key + " ")
	insert = append(insert, token...)

	out := make([]byte, 0, len(dict)+len(insert))
	out = append(out, dict[:insertAt]...)
	out = append(out, insert...)
	out = append(out, dict[insertAt:]...)
	return out
}

// RemoveKey deletes /<key> and its value from dict entirely, including the
// delimiting whitespace, leaving the dictionary otherwise untouched. Used
// by remove_appearance_stream and by field removal when clearing /AP.
func RemoveKey(dict []byte, key string) []byte {
	needle := append([]byte{'/'}, key...)
	pos := -1
	end := -1
	from := 0
	for {
		idx := bytes.Index(dict[from:], needle)
		if idx == -1 {
			return dict
		}
		candidate := from + idx
		after := candidate + len(needle)
		if after >= len(dict) || isKeyTerminator(dict[after]) {
			pos = candidate
			end = after
			break
		}
		from = candidate + 1
	}

	valStart := skipWhitespace(dict, end)
	if valStart >= len(dict) {
		return dict
	}
	tok, ok := fullValueSpan(dict, valStart)
	if !ok {
		return dict
	}

	// Trim the whitespace preceding "/<key>" too, so repeated removals don't
	// leave runs of blank space behind.
	start := pos
	for start > 0 && isWhitespace(dict[start-1]) {
		start--
	}

	out := make([]byte, 0, len(dict))
	out = append(out, dict[:start]...)
	out = append(out, ' ')
	out = append(out, dict[tok.End:]...)

	if !bytes.Contains(out, []byte("<<")) || !bytes.Contains(out, []byte(">>")) {
		return dict
	}
	return out
}
