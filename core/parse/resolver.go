package parse

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"

	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

// ObjectResolver is a byte-precise view over a single immutable PDF byte
// buffer: it chases the cross-reference chain once at construction time and
// resolves individual object bodies lazily, decoding object streams only on
// first access, per spec 4.2.
type ObjectResolver struct {
	raw     []byte
	entries map[int]xrefEntry
	trailer trailerInfo
	sink    types.Sink

	objStmCache map[int][]ObjStmSlot
}

// NewResolver builds a resolver over raw by chasing the xref chain starting
// at the last startxref offset, per spec 4.2 steps 1-2.
func NewResolver(raw []byte, sink types.Sink) (*ObjectResolver, error) {
	if sink == nil {
		sink = types.NopSink{}
	}
	raw = StripMultipart(raw)

	r := &ObjectResolver{
		raw:         raw,
		entries:     make(map[int]xrefEntry),
		sink:        sink,
		objStmCache: make(map[int][]ObjStmSlot),
	}

	offset, err := findStartXRef(raw)
	if err != nil {
		return nil, err
	}

	visited := make(map[int64]bool)
	first := true
	for {
		if visited[offset] {
			break
		}
		visited[offset] = true

		entries, tr, ok := parseSectionAt(raw, offset, sink)
		for num, e := range entries {
			if _, exists := r.entries[num]; !exists {
				r.entries[num] = e
			}
		}
		if first {
			r.trailer = tr
			first = false
		}
		if !ok || !tr.HasPrev {
			break
		}
		offset = tr.Prev
	}

	if len(r.entries) == 0 {
		r.entries = linearObjectScan(raw)
	}

	if r.trailer.Root.IsZero() {
		return nil, fmt.Errorf("%w: trailer has no /Root reference", types.ErrMalformedPDF)
	}

	return r, nil
}

// RootRef returns the catalog reference from the trailer, per spec 4.2
// root_ref.
func (r *ObjectResolver) RootRef() types.Ref {
	return r.trailer.Root
}

// TrailerDict returns the raw bytes of the governing trailer dictionary,
// per spec 4.2 trailer_dict.
func (r *ObjectResolver) TrailerDict() []byte {
	return r.trailer.Raw
}

// ClearObjStmCache discards cached object-stream slot tables. Required
// before replacing the underlying byte buffer, per spec 4.2 step 3.
func (r *ObjectResolver) ClearObjStmCache() {
	r.objStmCache = make(map[int][]ObjStmSlot)
}

// ObjectBody returns the raw bytes between "obj" and "endobj" for ref, per
// spec 4.2 object_body. For an in-file entry it locates the "<N> <G> obj"
// header at or near the recorded offset; for an in-objstm entry it returns
// the cached slot body, decoding the container on first access.
func (r *ObjectResolver) ObjectBody(ref types.Ref) ([]byte, bool) {
	entry, ok := r.entries[ref.Num]
	if !ok || entry.Kind == entryFree {
		return nil, false
	}
	switch entry.Kind {
	case entryInFile:
		return r.objectBodyAtOffset(ref.Num, entry.Offset)
	case entryInObjStm:
		return r.objectBodyInStream(ref.Num, entry.Container, entry.Index)
	}
	return nil, false
}

var numGenObjRe = regexp.MustCompile(`(\d+)\s+(\d+)\s+obj\b`)

func (r *ObjectResolver) objectBodyAtOffset(num int, offset int64) ([]byte, bool) {
	if offset < 0 || offset >= int64(len(r.raw)) {
		return r.objectBodyByScan(num)
	}
	window := r.raw[offset:]
	m := numGenObjRe.FindSubmatchIndex(window)
	if m == nil || m[0] > 32 {
		return r.objectBodyByScan(num)
	}
	bodyStart := offset + int64(m[1])
	endIdx := bytes.Index(r.raw[bodyStart:], []byte("endobj"))
	if endIdx == -1 {
		r.sink.Warn("object has no endobj keyword; trusting declared stream boundary", "object", num)
		return bytes.TrimSpace(r.raw[bodyStart:]), true
	}
	return bytes.TrimSpace(r.raw[bodyStart : bodyStart+int64(endIdx)]), true
}

func (r *ObjectResolver) objectBodyByScan(num int) ([]byte, bool) {
	needle := fmt.Sprintf("%d 0 obj", num)
	idx := bytes.Index(r.raw, []byte(needle))
	if idx == -1 {
		return nil, false
	}
	bodyStart := idx + len(needle)
	endIdx := bytes.Index(r.raw[bodyStart:], []byte("endobj"))
	if endIdx == -1 {
		return nil, false
	}
	return bytes.TrimSpace(r.raw[bodyStart : bodyStart+endIdx]), true
}

func (r *ObjectResolver) objectBodyInStream(num, container, index int) ([]byte, bool) {
	slots, ok := r.objStmCache[container]
	if !ok {
		decoded, ok := r.decodeObjStmContainer(container)
		if !ok {
			return nil, false
		}
		slots = decoded
		r.objStmCache[container] = slots
	}
	if index >= 0 && index < len(slots) && slots[index].Ref.Num == num {
		return slots[index].Body, true
	}
	for _, s := range slots {
		if s.Ref.Num == num {
			return s.Body, true
		}
	}
	return nil, false
}

var nRe = regexp.MustCompile(`/N\s+(\d+)`)
var firstRe = regexp.MustCompile(`/First\s+(\d+)`)

func (r *ObjectResolver) decodeObjStmContainer(container int) ([]ObjStmSlot, bool) {
	entry, ok := r.entries[container]
	if !ok || entry.Kind != entryInFile {
		return nil, false
	}
	window := r.raw[entry.Offset:]
	m := numGenObjRe.FindSubmatchIndex(window)
	if m == nil {
		return nil, false
	}
	dictOpen := bytes.Index(window[m[1]:], []byte("<<"))
	if dictOpen == -1 {
		return nil, false
	}
	dictOpen += m[1]
	dictEnd, ok := dictscan.ScanBalancedDict(window, dictOpen)
	if !ok {
		return nil, false
	}
	dict := window[dictOpen:dictEnd]

	nMatch := nRe.FindSubmatch(dict)
	firstMatch := firstRe.FindSubmatch(dict)
	if nMatch == nil || firstMatch == nil {
		return nil, false
	}
	n := atoiOr(nMatch[1], 0)
	first := atoiOr(firstMatch[1], 0)

	streamIdx := bytes.Index(window[dictEnd:], []byte("stream"))
	if streamIdx == -1 {
		return nil, false
	}
	bodyStart := dictEnd + streamIdx + len("stream")
	if bodyStart < len(window) && window[bodyStart] == '\r' {
		bodyStart++
	}
	if bodyStart < len(window) && window[bodyStart] == '\n' {
		bodyStart++
	}
	endIdx := bytes.Index(window[bodyStart:], []byte("endstream"))
	if endIdx == -1 {
		return nil, false
	}
	streamBytes := bytes.TrimRight(window[bodyStart:bodyStart+endIdx], "\r\n")

	decoded, err := DecompressFlate(streamBytes)
	if err != nil {
		r.sink.Warn("object stream container failed to decompress", "container", container, "error", err)
		return nil, false
	}

	slots, err := DecodeObjStm(decoded, n, first)
	if err != nil {
		r.sink.Warn("object stream container has malformed header", "container", container, "error", err)
		return nil, false
	}
	return slots, true
}

func atoiOr(b []byte, fallback int) int {
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// EachObject invokes fn(ref, body) for every resolvable object, in
// ascending object-number order, per spec 4.2 each_object.
func (r *ObjectResolver) EachObject(fn func(ref types.Ref, body []byte) bool) {
	nums := make([]int, 0, len(r.entries))
	for num := range r.entries {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	for _, num := range nums {
		entry := r.entries[num]
		if entry.Kind == entryFree {
			continue
		}
		ref := types.Ref{Num: num, Gen: entry.Gen}
		body, ok := r.ObjectBody(ref)
		if !ok {
			continue
		}
		if !fn(ref, body) {
			return
		}
	}
}
