package write

import (
	"fmt"

	"github.com/benedoc-inc/acroedit/core/parse"
	"github.com/benedoc-inc/acroedit/types"
)

// EncodeObjStmObject packs slots into a single compressed object stream
// object body, the inverse of parse.DecodeObjStm, per spec 4.3's optional
// rewrite path. The returned body is ready to wrap as "<ref> obj ...
// endobj" by Rewrite.
func EncodeObjStmObject(slots []parse.ObjStmSlot) []byte {
	header, body, n, first := parse.EncodeObjStm(slots)
	raw := append(append([]byte{}, header...), body...)
	compressed := parse.CompressFlate(raw)

	dict := fmt.Sprintf("<< /Type /ObjStm /N %d /First %d /Filter /FlateDecode /Length %d >>",
		n, first, len(compressed))

	var out []byte
	out = append(out, []byte(dict)...)
	out = append(out, '\n')
	out = append(out, []byte("stream\n")...)
	out = append(out, compressed...)
	out = append(out, []byte("\nendstream")...)
	return out
}

// ObjStmObject is a convenience constructor pairing an encoded ObjStm body
// with its own object reference, for callers assembling a Rewrite object
// list.
func ObjStmObject(ref types.Ref, slots []parse.ObjStmSlot) Object {
	return Object{Ref: ref, Body: EncodeObjStmObject(slots)}
}
