package parse

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

// entryKind distinguishes where an object's body actually lives.
type entryKind int

const (
	entryFree entryKind = iota
	entryInFile
	entryInObjStm
)

// xrefEntry is one resolved slot of the merged cross-reference table.
type xrefEntry struct {
	Kind      entryKind
	Offset    int64 // entryInFile: byte offset of "N G obj"
	Gen       int
	Container int // entryInObjStm: container object number
	Index     int // entryInObjStm: slot index within the container
}

// trailerInfo is the subset of trailer fields the resolver cares about.
type trailerInfo struct {
	Size  int
	Root  types.Ref
	Info  types.Ref
	Prev  int64
	HasPrev bool
	Raw   []byte
}

// FindStartXRef scans backward from the end of data for the last
// "startxref <digits>" directive. Exported for the incremental writer,
// which needs the previous revision's xref offset for the new trailer's
// /Prev.
func FindStartXRef(data []byte) (int64, error) {
	return findStartXRef(data)
}

var startxrefRe = regexp.MustCompile(`startxref\s+(\d+)\s*(?:%%EOF)?`)

// findStartXRef scans backward from the end of data for the last
// "startxref <digits>" directive, per spec 4.2 step 1.
func findStartXRef(data []byte) (int64, error) {
	matches := startxrefRe.FindAllSubmatch(data, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: no startxref directive found", types.ErrMalformedPDF)
	}
	last := matches[len(matches)-1]
	n, err := strconv.ParseInt(string(last[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed startxref offset", types.ErrMalformedPDF)
	}
	return n, nil
}

var objHeaderRe = regexp.MustCompile(`(?:^|[\r\n])\s*(\d+)\s+(\d+)\s+obj\b`)

// parseSectionAt dispatches classic-table vs xref-stream parsing based on
// what's found at offset, per spec 4.2 step 2, and returns the entries it
// contributed plus the trailer info governing it (including /Prev).
func parseSectionAt(data []byte, offset int64, sink types.Sink) (map[int]xrefEntry, trailerInfo, bool) {
	if offset < 0 || offset >= int64(len(data)) {
		return nil, trailerInfo{}, false
	}
	window := data[offset:]
	trimmed := bytes.TrimLeft(window, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("xref")) {
		entries, tr, ok := parseClassicXRef(data, offset)
		if ok {
			return entries, tr, true
		}
	} else if entries, tr, ok := parseXRefStreamAt(data, offset); ok {
		return entries, tr, true
	}

	sink.Warn("xref section at reported offset is not a recognizable xref table or stream; falling back to linear object scan", "offset", offset)
	return linearObjectScan(data), trailerInfo{}, false
}

// parseClassicXRef parses a classic "xref\n<subsections>\ntrailer<<...>>"
// section starting at offset, per spec 4.2.
func parseClassicXRef(data []byte, offset int64) (map[int]xrefEntry, trailerInfo, bool) {
	rest := data[offset:]
	idx := bytes.Index(rest, []byte("xref"))
	if idx == -1 {
		return nil, trailerInfo{}, false
	}
	pos := idx + len("xref")

	entries := make(map[int]xrefEntry)
	for {
		pos = skipEOL(rest, pos)
		lineEnd := indexEOL(rest, pos)
		if lineEnd == -1 {
			return nil, trailerInfo{}, false
		}
		line := bytes.TrimSpace(rest[pos:lineEnd])
		if bytes.HasPrefix(line, []byte("trailer")) {
			pos += bytes.Index(rest[pos:], []byte("trailer")) + len("trailer")
			tr, ok := parseTrailerDict(rest, pos)
			if !ok {
				return nil, trailerInfo{}, false
			}
			return entries, tr, true
		}
		fields := bytes.Fields(line)
		if len(fields) != 2 {
			return nil, trailerInfo{}, false
		}
		first, err1 := strconv.Atoi(string(fields[0]))
		count, err2 := strconv.Atoi(string(fields[1]))
		if err1 != nil || err2 != nil {
			return nil, trailerInfo{}, false
		}
		pos = lineEnd
		for i := 0; i < count; i++ {
			pos = skipEOL(rest, pos)
			if pos+20 > len(rest) {
				return nil, trailerInfo{}, false
			}
			entryLine := rest[pos : pos+20]
			objOffset, err := strconv.ParseInt(string(bytes.TrimSpace(entryLine[0:10])), 10, 64)
			if err != nil {
				return nil, trailerInfo{}, false
			}
			gen, err := strconv.Atoi(string(bytes.TrimSpace(entryLine[11:16])))
			if err != nil {
				return nil, trailerInfo{}, false
			}
			inUse := entryLine[17] == 'n'
			num := first + i
			if inUse {
				if _, exists := entries[num]; !exists {
					entries[num] = xrefEntry{Kind: entryInFile, Offset: objOffset, Gen: gen}
				}
			}
			pos += 20
		}
	}
}

func skipEOL(data []byte, i int) int {
	for i < len(data) && (data[i] == '\r' || data[i] == '\n' || data[i] == ' ') {
		i++
	}
	return i
}

func indexEOL(data []byte, from int) int {
	for i := from; i < len(data); i++ {
		if data[i] == '\n' {
			return i
		}
	}
	if from < len(data) {
		return len(data)
	}
	return -1
}

// parseTrailerDict parses the "<< ... >>" dictionary starting at or after
// from, extracting /Size, /Root, /Info, /Prev, per spec 4.2.
func parseTrailerDict(data []byte, from int) (trailerInfo, bool) {
	open := bytes.Index(data[from:], []byte("<<"))
	if open == -1 {
		return trailerInfo{}, false
	}
	open += from
	end, ok := dictscan.ScanBalancedDict(data, open)
	if !ok {
		return trailerInfo{}, false
	}
	body := data[open:end]
	return extractTrailerFields(body), true
}

func extractTrailerFields(body []byte) trailerInfo {
	var tr trailerInfo
	tr.Raw = body

	if tok, ok := dictscan.ValueTokenAfter(body, "Size"); ok && tok.Kind == dictscan.TokenAtom {
		tr.Size, _ = strconv.Atoi(string(tok.Bytes(body)))
	}
	tr.Root = parseRefField(body, "Root")
	tr.Info = parseRefField(body, "Info")
	if tok, ok := dictscan.ValueTokenAfter(body, "Prev"); ok {
		if v, err := strconv.ParseInt(string(tok.Bytes(body)), 10, 64); err == nil {
			tr.Prev = v
			tr.HasPrev = true
		}
	}
	return tr
}

var refAtomRe = regexp.MustCompile(`^(\d+)\s+(\d+)\s+R$`)

func parseRefField(body []byte, key string) types.Ref {
	tok, ok := dictscan.ValueTokenAfter(body, key)
	if !ok {
		return types.Ref{}
	}
	m := refAtomRe.FindSubmatch(tok.Bytes(body))
	if m == nil {
		return types.Ref{}
	}
	num, _ := strconv.Atoi(string(m[1]))
	gen, _ := strconv.Atoi(string(m[2]))
	return types.Ref{Num: num, Gen: gen}
}

// linearObjectScan reconstructs an approximate xref by scanning the whole
// buffer for "N G obj" headers, per spec 4.2 error-recovery fallback.
func linearObjectScan(data []byte) map[int]xrefEntry {
	entries := make(map[int]xrefEntry)
	for _, m := range objHeaderRe.FindAllSubmatchIndex(data, -1) {
		num, err := strconv.Atoi(string(data[m[2]:m[3]]))
		if err != nil {
			continue
		}
		gen, err := strconv.Atoi(string(data[m[4]:m[5]]))
		if err != nil {
			continue
		}
		// A later occurrence of the same object number in linear scan order
		// wins, matching how later bytes in a single-revision document would
		// shadow earlier ones.
		entries[num] = xrefEntry{Kind: entryInFile, Offset: int64(m[0]), Gen: gen}
	}
	return entries
}
