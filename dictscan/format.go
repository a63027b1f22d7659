package dictscan

import (
	"fmt"
	"sort"
	"strings"
)

// FormatPDFKey renders k as a PDF name key ("/Key"), per spec 4.1
// format_pdf_key. k is expected already bare (without the leading '/').
func FormatPDFKey(k string) string {
	return EncodePDFName(k)
}

// FormatPDFValue converts a host value to PDF syntax, per spec 4.1
// format_pdf_value: integers and floats render as numeric literals,
// strings/names/booleans delegate to EncodeValue, []any values render as a
// space-separated "[ ... ]" array, and map[string]any values render as a
// dictionary with each key on its own line.
func FormatPDFValue(v any) string {
	switch val := v.(type) {
	case int, int64, float64, bool, string, Name:
		return string(EncodeValue(val))
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = FormatPDFValue(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case map[string]any:
		return formatDictionary(val)
	case nil:
		return "null"
	default:
		return string(EncodeValue(val))
	}
}

func formatDictionary(dict map[string]any) string {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<<\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s %s\n", FormatPDFKey(k), FormatPDFValue(dict[k]))
	}
	b.WriteString(">>")
	return b.String()
}
