package parse

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

var objAtRe = regexp.MustCompile(`(\d+)\s+(\d+)\s+obj\b`)

// parseXRefStreamAt parses an "N G obj << /Type /XRef ... >> stream ...
// endstream" object at offset, per spec 4.2 step 2 xref-stream path.
func parseXRefStreamAt(data []byte, offset int64) (map[int]xrefEntry, trailerInfo, bool) {
	rest := data[offset:]
	m := objAtRe.FindSubmatchIndex(rest)
	if m == nil || m[0] != 0 {
		return nil, trailerInfo{}, false
	}
	dictOpen := bytes.Index(rest[m[1]:], []byte("<<"))
	if dictOpen == -1 {
		return nil, trailerInfo{}, false
	}
	dictOpen += m[1]
	dictEnd, ok := dictscan.ScanBalancedDict(rest, dictOpen)
	if !ok {
		return nil, trailerInfo{}, false
	}
	dict := rest[dictOpen:dictEnd]

	if tok, ok := dictscan.ValueTokenAfter(dict, "Type"); !ok || string(tok.Bytes(dict)) != "/XRef" {
		return nil, trailerInfo{}, false
	}

	streamIdx := bytes.Index(rest[dictEnd:], []byte("stream"))
	if streamIdx == -1 {
		return nil, trailerInfo{}, false
	}
	bodyStart := dictEnd + streamIdx + len("stream")
	if bodyStart < len(rest) && rest[bodyStart] == '\r' {
		bodyStart++
	}
	if bodyStart < len(rest) && rest[bodyStart] == '\n' {
		bodyStart++
	}
	endIdx := bytes.Index(rest[bodyStart:], []byte("endstream"))
	if endIdx == -1 {
		return nil, trailerInfo{}, false
	}
	streamBytes := rest[bodyStart : bodyStart+endIdx]
	// Trim a single trailing EOL that precedes "endstream".
	streamBytes = bytes.TrimRight(streamBytes, "\r\n")

	decoded, err := decodeFlate(streamBytes)
	if err != nil {
		return nil, trailerInfo{}, false
	}
	decoded = applyPredictor(decoded, dict)

	widths, ok := parseW(dict)
	if !ok {
		return nil, trailerInfo{}, false
	}
	size, _ := strconv.Atoi(string(mustToken(dict, "Size")))
	index := parseIndex(dict, size)

	entries, ok := decodeXRefStreamEntries(decoded, widths, index)
	if !ok {
		return nil, trailerInfo{}, false
	}

	tr := extractTrailerFields(dict)
	tr.Size = size
	return entries, tr, true
}

func mustToken(dict []byte, key string) []byte {
	tok, ok := dictscan.ValueTokenAfter(dict, key)
	if !ok {
		return nil
	}
	return tok.Bytes(dict)
}

func decodeFlate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: xref stream is not valid FlateDecode data", types.ErrUnsupportedFilter)
	}
	defer r.Close()
	return io.ReadAll(r)
}

var wRe = regexp.MustCompile(`/W\s*\[\s*(\d+)\s+(\d+)\s+(\d+)\s*\]`)

func parseW(dict []byte) ([3]int, bool) {
	m := wRe.FindSubmatch(dict)
	if m == nil {
		return [3]int{}, false
	}
	var w [3]int
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(string(m[i+1]))
		if err != nil {
			return [3]int{}, false
		}
		w[i] = v
	}
	return w, true
}

var indexRe = regexp.MustCompile(`/Index\s*\[([^\]]*)\]`)

// parseIndex returns the (start, count) subsections from /Index, defaulting
// to a single [0, size] subsection when absent.
func parseIndex(dict []byte, size int) [][2]int {
	m := indexRe.FindSubmatch(dict)
	if m == nil {
		return [][2]int{{0, size}}
	}
	fields := bytes.Fields(m[1])
	var out [][2]int
	for i := 0; i+1 < len(fields); i += 2 {
		start, err1 := strconv.Atoi(string(fields[i]))
		count, err2 := strconv.Atoi(string(fields[i+1]))
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, [2]int{start, count})
	}
	if len(out) == 0 {
		return [][2]int{{0, size}}
	}
	return out
}

func decodeXRefStreamEntries(data []byte, w [3]int, index [][2]int) (map[int]xrefEntry, bool) {
	rowLen := w[0] + w[1] + w[2]
	if rowLen == 0 {
		return nil, false
	}
	entries := make(map[int]xrefEntry)
	pos := 0
	for _, sub := range index {
		for i := 0; i < sub[1]; i++ {
			if pos+rowLen > len(data) {
				return entries, true
			}
			row := data[pos : pos+rowLen]
			pos += rowLen

			typ := int64(1)
			if w[0] > 0 {
				typ = beInt(row[:w[0]])
			}
			f2 := beInt(row[w[0] : w[0]+w[1]])
			f3 := beInt(row[w[0]+w[1] : rowLen])

			num := sub[0] + i
			if _, exists := entries[num]; exists {
				continue
			}
			switch typ {
			case 0:
				entries[num] = xrefEntry{Kind: entryFree}
			case 1:
				entries[num] = xrefEntry{Kind: entryInFile, Offset: f2, Gen: int(f3)}
			case 2:
				entries[num] = xrefEntry{Kind: entryInObjStm, Container: int(f2), Index: int(f3)}
			}
		}
	}
	return entries, true
}

func beInt(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}
