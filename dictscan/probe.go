package dictscan

import (
	"bytes"
	"strconv"
)

// StripStreamBodies replaces every "stream ... endstream" payload in data
// with a fixed-length sentinel so dictionary scanning over the enumeration
// fallback path can't wander into binary stream bytes, per spec 4.1
// strip_stream_bodies.
func StripStreamBodies(data []byte) []byte {
	const streamKw = "stream"
	const endstreamKw = "endstream"
	const sentinel = "<<STREAM-BODY-STRIPPED>>"

	var out bytes.Buffer
	i := 0
	for i < len(data) {
		idx := bytes.Index(data[i:], []byte(streamKw))
		if idx == -1 {
			out.Write(data[i:])
			break
		}
		streamStart := i + idx
		bodyStart := streamStart + len(streamKw)
		// Skip the EOL after the "stream" keyword per PDF convention.
		if bodyStart < len(data) && data[bodyStart] == '\r' {
			bodyStart++
		}
		if bodyStart < len(data) && data[bodyStart] == '\n' {
			bodyStart++
		}

		endIdx := bytes.Index(data[bodyStart:], []byte(endstreamKw))
		if endIdx == -1 {
			out.Write(data[i:])
			break
		}
		bodyEnd := bodyStart + endIdx

		out.Write(data[i:bodyStart])
		out.WriteString(sentinel)
		i = bodyEnd
	}
	return out.Bytes()
}

// IsWidget reports whether body contains "/Subtype" followed, with
// optional whitespace, by "/Widget", per spec 4.1 is_widget.
func IsWidget(body []byte) bool {
	tok, ok := ValueTokenAfter(body, "Subtype")
	if !ok || tok.Kind != TokenName {
		return false
	}
	return string(tok.Bytes(body)) == "/Widget"
}

// IsPage reports whether body contains "/Type" followed by "/Page" but not
// "/Pages", per spec 4.1 is_page.
func IsPage(body []byte) bool {
	tok, ok := ValueTokenAfter(body, "Type")
	if !ok || tok.Kind != TokenName {
		return false
	}
	return string(tok.Bytes(body)) == "/Page"
}

const ffMultiline = 0x1000

// IsMultilineField extracts /Ff from body and tests bit 0x1000, per spec
// 4.1 is_multiline_field.
func IsMultilineField(body []byte) bool {
	flags, ok := fieldFlags(body)
	return ok && flags&ffMultiline != 0
}

func fieldFlags(body []byte) (int, bool) {
	tok, ok := ValueTokenAfter(body, "Ff")
	if !ok || tok.Kind != TokenAtom {
		return 0, false
	}
	n, err := strconv.Atoi(string(tok.Bytes(body)))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseBox extracts a 4-number array following key (e.g. "MediaBox",
// "Rect") from body, per spec 4.1 parse_box.
func ParseBox(body []byte, key string) ([4]float64, bool) {
	var box [4]float64
	tok, ok := ValueTokenAfter(body, key)
	if !ok || tok.Kind != TokenArray {
		return box, false
	}
	inner := tok.Bytes(body)[1 : len(tok.Bytes(body))-1]
	fields := bytes.Fields(inner)
	if len(fields) != 4 {
		return box, false
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(string(f), 64)
		if err != nil {
			return box, false
		}
		box[i] = v
	}
	return box, true
}

// AppearanceChoiceFor maps a user-supplied checkbox/radio value to the
// "/Yes" or "/Off" appearance-state name, per spec 4.1
// appearance_choice_for. dict is the widget's appearance dictionary body
// (its "<< ... >>" under /AP/N); the mapping only depends on newValue.
func AppearanceChoiceFor(newValue any, dict []byte) string {
	switch v := newValue.(type) {
	case bool:
		if v {
			return "/Yes"
		}
		return "/Off"
	case string:
		switch v {
		case "Yes", "true", "on", "On":
			return "/Yes"
		default:
			return "/Off"
		}
	case Name:
		return AppearanceChoiceFor(string(v), dict)
	default:
		return "/Off"
	}
}

// RemoveAppearanceStream deletes the /AP entry (and its possibly nested
// dictionary value) from dict, verifying the result is still structurally
// sound, per spec 4.1 remove_appearance_stream.
func RemoveAppearanceStream(dict []byte) []byte {
	return RemoveKey(dict, "AP")
}
