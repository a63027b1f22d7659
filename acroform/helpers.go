package acroform

import (
	"regexp"
	"strconv"

	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

var refAtomRe = regexp.MustCompile(`^(\d+)\s+(\d+)\s+R$`)

// refValue extracts an "N G R" reference stored directly (not nested in an
// array) under /<key> in body.
func refValue(body []byte, key string) (types.Ref, bool) {
	tok, ok := dictscan.ValueTokenAfter(body, key)
	if !ok || tok.Kind != dictscan.TokenAtom {
		return types.Ref{}, false
	}
	m := refAtomRe.FindSubmatch(tok.Bytes(body))
	if m == nil {
		return types.Ref{}, false
	}
	num, _ := strconv.Atoi(string(m[1]))
	gen, _ := strconv.Atoi(string(m[2]))
	return types.Ref{Num: num, Gen: gen}, true
}

var refInArrayRe = regexp.MustCompile(`(\d+)\s+(\d+)\s+R`)

// refArrayValue extracts every "N G R" reference from the array stored
// under /<key> in body, in array order.
func refArrayValue(body []byte, key string) ([]types.Ref, bool) {
	tok, ok := dictscan.ValueTokenAfter(body, key)
	if !ok || tok.Kind != dictscan.TokenArray {
		return nil, false
	}
	inner := tok.Bytes(body)
	matches := refInArrayRe.FindAllSubmatch(inner, -1)
	refs := make([]types.Ref, 0, len(matches))
	for _, m := range matches {
		num, _ := strconv.Atoi(string(m[1]))
		gen, _ := strconv.Atoi(string(m[2]))
		refs = append(refs, types.Ref{Num: num, Gen: gen})
	}
	return refs, true
}

// nameValue extracts and decodes the string (or name) stored under /<key>.
func nameValue(body []byte, key string) (string, bool) {
	tok, ok := dictscan.ValueTokenAfter(body, key)
	if !ok {
		return "", false
	}
	switch tok.Kind {
	case dictscan.TokenString, dictscan.TokenHexString:
		s, err := dictscan.DecodeString(tok.Bytes(body))
		if err != nil {
			return "", false
		}
		return s, true
	case dictscan.TokenName:
		return dictscan.DecodePDFName(tok.Bytes(body)), true
	}
	return "", false
}

func isPage(body []byte) bool {
	return dictscan.IsPage(body)
}

func isWidget(body []byte) bool {
	return dictscan.IsWidget(body)
}

func intValue(body []byte, key string) (int, bool) {
	tok, ok := dictscan.ValueTokenAfter(body, key)
	if !ok || tok.Kind != dictscan.TokenAtom {
		return 0, false
	}
	n, err := strconv.Atoi(string(tok.Bytes(body)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// appendRefToArrayField adds ref to the array stored under /<key> in
// ownerBody, whether that array is inline, missing, or itself an indirect
// reference to a separate array object — in the indirect case the
// referenced array object is patched directly and ownerBody is returned
// unchanged, since the owner's own key still just holds "N G R".
func appendRefToArrayField(d *Document, ownerBody []byte, key string, ref types.Ref) []byte {
	if arrRef, ok := refValue(ownerBody, key); ok {
		arrBody, ok := d.ObjectBody(arrRef)
		if ok {
			newArr := dictscan.AddRefToArray(arrBody, ref.String())
			d.Patches().Enqueue(arrRef, newArr)
		}
		return ownerBody
	}
	return dictscan.AddRefToInlineArray(ownerBody, key, ref.String())
}

// removeRefFromArrayField is the inverse of appendRefToArrayField.
func removeRefFromArrayField(d *Document, ownerBody []byte, key string, ref types.Ref) []byte {
	if arrRef, ok := refValue(ownerBody, key); ok {
		arrBody, ok := d.ObjectBody(arrRef)
		if ok {
			newArr := dictscan.RemoveRefFromArray(arrBody, ref.String())
			d.Patches().Enqueue(arrRef, newArr)
		}
		return ownerBody
	}
	return dictscan.RemoveRefFromInlineArray(ownerBody, key, ref.String())
}
