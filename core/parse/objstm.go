package parse

import (
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/benedoc-inc/acroedit/types"
)

// ObjStmSlot is one decoded object body from inside a compressed object
// stream, per spec 4.3.
type ObjStmSlot struct {
	Ref  types.Ref
	Body []byte
}

// DecodeObjStm splits a decompressed ObjStm container body into its
// constituent object bodies, per spec 4.3: header = body[:first] holds
// n pairs of (objNum, relativeOffset); slot i's body runs from
// first+offset[i] to first+offset[i+1] (or body end for the last slot).
func DecodeObjStm(body []byte, n, first int) ([]ObjStmSlot, error) {
	if first < 0 || first > len(body) {
		return nil, fmt.Errorf("%w: ObjStm /First out of range", types.ErrMalformedPDF)
	}
	header := body[:first]
	fields := bytes.Fields(header)
	if len(fields) < 2*n {
		return nil, fmt.Errorf("%w: ObjStm header shorter than /N pairs", types.ErrMalformedPDF)
	}

	type pair struct {
		obj, off int
	}
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		obj, err1 := strconv.Atoi(string(fields[2*i]))
		off, err2 := strconv.Atoi(string(fields[2*i+1]))
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: ObjStm header entry %d is not numeric", types.ErrMalformedPDF, i)
		}
		pairs[i] = pair{obj, off}
	}

	slots := make([]ObjStmSlot, n)
	for i, p := range pairs {
		start := first + p.off
		end := len(body)
		if i+1 < n {
			end = first + pairs[i+1].off
		}
		if start < 0 || end > len(body) || start > end {
			return nil, fmt.Errorf("%w: ObjStm slot %d has out-of-range bounds", types.ErrMalformedPDF, i)
		}
		slots[i] = ObjStmSlot{Ref: types.Ref{Num: p.obj, Gen: 0}, Body: body[start:end]}
	}
	return slots, nil
}

// EncodeObjStm is the inverse of DecodeObjStm: it concatenates sorted
// object bodies, each newline-terminated, behind a header listing each
// (obj, cumulative offset) pair, per spec 4.3's optional rewrite path.
func EncodeObjStm(slots []ObjStmSlot) (header []byte, body []byte, n int, first int) {
	var headerBuf bytes.Buffer
	var bodyBuf bytes.Buffer
	offset := 0
	sorted := append([]ObjStmSlot(nil), slots...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ref.Num < sorted[j].Ref.Num })
	for _, s := range sorted {
		fmt.Fprintf(&headerBuf, "%d %d ", s.Ref.Num, offset)
		bodyBuf.Write(s.Body)
		if len(s.Body) == 0 || s.Body[len(s.Body)-1] != '\n' {
			bodyBuf.WriteByte('\n')
		}
		offset = bodyBuf.Len()
	}
	headerBuf.WriteByte('\n')
	return headerBuf.Bytes(), bodyBuf.Bytes(), len(slots), headerBuf.Len()
}

// CompressFlate deflates data for an ObjStm or content stream body.
func CompressFlate(data []byte) []byte {
	var buf bytes.Buffer
	w, _ := flate.NewWriter(&buf, flate.BestCompression)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// DecompressFlate inflates a Flate stream body, accepting object streams
// produced with a zlib header as well as without one: it tries zlib framing
// first and falls back to raw deflate.
func DecompressFlate(data []byte) ([]byte, error) {
	if out, err := decodeFlate(data); err == nil {
		return out, nil
	}
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: stream is neither valid zlib nor raw deflate", types.ErrUnsupportedFilter)
	}
	return out, nil
}
