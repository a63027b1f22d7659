// Package write emits revised PDF bytes from a patch queue, either as an
// incremental update appended to the original bytes (preserving them
// verbatim) or as a full single-revision rewrite.
package write

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/benedoc-inc/acroedit/core/parse"
	"github.com/benedoc-inc/acroedit/types"
)

var objHeaderNumRe = regexp.MustCompile(`(\d+)\s+(\d+)\s+obj\b`)

// maxObjectNumber scans original for the highest "N G obj" header number,
// then compares it against every ref in patches, per spec 4.4 step 2.
func maxObjectNumber(original []byte, patches []types.Patch) int {
	max := 0
	for _, m := range objHeaderNumRe.FindAllSubmatch(original, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n > max {
			max = n
		}
	}
	for _, p := range patches {
		if p.Ref.Num > max {
			max = p.Ref.Num
		}
	}
	return max
}

// Incremental appends a new revision containing patches to original,
// leaving every original byte untouched, per spec 4.4. If patches is
// empty, it returns original unchanged.
func Incremental(original []byte, patches []types.Patch) ([]byte, error) {
	if len(patches) == 0 {
		return original, nil
	}

	prevXRef, err := parse.FindStartXRef(original)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot append an incremental update without a prior startxref", types.ErrMalformedPDF)
	}

	maxObj := maxObjectNumber(original, patches)

	var buf bytes.Buffer
	buf.Write(original)
	if buf.Len() == 0 || buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}

	offsets := make([]offsetEntry, 0, len(patches))
	for _, p := range patches {
		off := int64(buf.Len())
		fmt.Fprintf(&buf, "%d %d obj\n%s\nendobj\n", p.Ref.Num, p.Ref.Gen, p.Body)
		offsets = append(offsets, offsetEntry{ref: p.Ref, offset: off})
	}

	sort.Slice(offsets, func(i, j int) bool {
		if offsets[i].ref.Num != offsets[j].ref.Num {
			return offsets[i].ref.Num < offsets[j].ref.Num
		}
		return offsets[i].ref.Gen < offsets[j].ref.Gen
	})
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: incremental writer produced an empty xref table", types.ErrMalformedPDF)
	}

	xrefOffset := buf.Len()
	buf.WriteString("xref\n")
	writeIncrementalXRefSubsections(&buf, offsets)

	rootRef := resolveRootRef(original)
	maxPatchNum := 0
	for _, p := range patches {
		if p.Ref.Num > maxPatchNum {
			maxPatchNum = p.Ref.Num
		}
	}
	size := maxObj + 1
	if maxPatchNum+1 > size {
		size = maxPatchNum + 1
	}

	buf.WriteString("trailer\n<< ")
	fmt.Fprintf(&buf, "/Size %d /Prev %d", size, prevXRef)
	if !rootRef.IsZero() {
		fmt.Fprintf(&buf, " /Root %s", rootRef)
	}
	buf.WriteString(" >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	return buf.Bytes(), nil
}

type offsetEntry struct {
	ref    types.Ref
	offset int64
}

// writeIncrementalXRefSubsections groups consecutively numbered entries
// (already sorted by object number) into "<first> <count>" subsections and
// emits each as "%010d %05d n \n", per spec 4.4 step 5.
func writeIncrementalXRefSubsections(buf *bytes.Buffer, entries []offsetEntry) {
	i := 0
	for i < len(entries) {
		j := i
		for j+1 < len(entries) && entries[j+1].ref.Num == entries[j].ref.Num+1 {
			j++
		}
		fmt.Fprintf(buf, "%d %d\n", entries[i].ref.Num, j-i+1)
		for k := i; k <= j; k++ {
			fmt.Fprintf(buf, "%010d %05d n \n", entries[k].offset, entries[k].ref.Gen)
		}
		i = j + 1
	}
}

func resolveRootRef(original []byte) types.Ref {
	r, err := parse.NewResolver(original, types.NopSink{})
	if err != nil {
		return types.Ref{}
	}
	return r.RootRef()
}
