// Package parse implements the byte-precise PDF object layer: locating the
// cross-reference chain, decoding classic and stream xref sections and
// object streams, and resolving individual indirect objects without ever
// building a full parsed object graph.
package parse

import "bytes"

var (
	pdfMagic    = []byte("%PDF-")
	eofMarker   = []byte("%%EOF")
)

// StripMultipart trims everything before the first "%PDF-" header and
// everything after the last "%%EOF" marker, so that a raw HTTP multipart
// upload body (preamble and epilogue boundary text included) can be fed
// straight into the resolver, per spec 4.2 preprocessing.
func StripMultipart(data []byte) []byte {
	start := bytes.Index(data, pdfMagic)
	if start == -1 {
		return data
	}
	rest := data[start:]

	end := bytes.LastIndex(rest, eofMarker)
	if end == -1 {
		return rest
	}
	end += len(eofMarker)
	return rest[:end]
}
