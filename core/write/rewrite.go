package write

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/benedoc-inc/acroedit/types"
)

// binaryMarker is the high-bit comment PDF readers use to classify a file
// as binary, per spec 4.5 step 1.
var binaryMarker = []byte{'%', 0xE2, 0xE3, 0xCF, 0xD3, '\n'}

// Object is one kept object destined for a full rewrite: its number,
// generation, and body bytes (without "obj"/"endobj" wrapping).
type Object struct {
	Ref  types.Ref
	Body []byte
}

// Rewrite emits a fresh single-revision PDF containing exactly objects,
// per spec 4.5. rootRef and infoRef (infoRef may be the zero Ref) are
// written into the trailer.
func Rewrite(objects []Object, rootRef types.Ref, infoRef types.Ref) ([]byte, error) {
	if rootRef.IsZero() {
		return nil, fmt.Errorf("%w: full rewrite requires a non-zero /Root reference", types.ErrMalformedPDF)
	}

	sorted := append([]Object(nil), objects...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ref.Num < sorted[j].Ref.Num })

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.6\n")
	buf.Write(binaryMarker)

	maxObj := 0
	offsets := make(map[int]xrefSlot, len(sorted))
	for _, obj := range sorted {
		if obj.Ref.Num > maxObj {
			maxObj = obj.Ref.Num
		}
		offsets[obj.Ref.Num] = xrefSlot{offset: int64(buf.Len()), gen: obj.Ref.Gen}
		buf.WriteString(fmt.Sprintf("%d %d obj\n", obj.Ref.Num, obj.Ref.Gen))
		buf.Write(obj.Body)
		if len(obj.Body) == 0 || obj.Body[len(obj.Body)-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteString("endobj\n")
	}

	xrefOffset := buf.Len()
	buf.WriteString("xref\n")
	writeFullXRefTable(&buf, offsets, maxObj)

	buf.WriteString("trailer\n<< ")
	fmt.Fprintf(&buf, "/Size %d /Root %s", maxObj+1, rootRef)
	if !infoRef.IsZero() {
		fmt.Fprintf(&buf, " /Info %s", infoRef)
	}
	buf.WriteString(" >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefOffset)

	return buf.Bytes(), nil
}

// xrefSlot records a kept object's byte offset and generation for the
// classic xref table's "nnnnnnnnnn ggggg n" entry.
type xrefSlot struct {
	offset int64
	gen    int
}

// writeFullXRefTable emits a single "0 maxObj+1" subsection: the mandatory
// free-list head for object 0, then one entry for each of 1..maxObj, with
// any gap in offsets (an object number never kept) rendered as a free
// entry so that strict viewers don't reject the file, per spec 4.5 step 3.
func writeFullXRefTable(buf *bytes.Buffer, offsets map[int]xrefSlot, maxObj int) {
	fmt.Fprintf(buf, "0 %d\n", maxObj+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= maxObj; num++ {
		if slot, ok := offsets[num]; ok {
			fmt.Fprintf(buf, "%010d %05d n \n", slot.offset, slot.gen)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}
}
