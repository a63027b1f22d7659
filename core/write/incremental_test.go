package write

import (
	"bytes"
	"testing"

	"github.com/benedoc-inc/acroedit/core/parse"
	"github.com/benedoc-inc/acroedit/types"
)

func samplePDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	obj1Off := buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	obj2Off := buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	xrefOff := buf.Len()
	buf.WriteString("xref\n0 3\n")
	buf.WriteString("0000000000 65535 f \n")
	buf.WriteString(padOffset(obj1Off) + " 00000 n \n")
	buf.WriteString(padOffset(obj2Off) + " 00000 n \n")
	buf.WriteString("trailer\n<< /Size 3 /Root 1 0 R >>\n")
	buf.WriteString("startxref\n")
	buf.WriteString(itoa(xrefOff))
	buf.WriteString("\n%%EOF")
	return buf.Bytes()
}

func padOffset(n int) string {
	s := itoa(n)
	for len(s) < 10 {
		s = "0" + s
	}
	return s
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestIncrementalEmptyPatchesReturnsOriginal(t *testing.T) {
	original := samplePDF()
	got, err := Incremental(original, nil)
	if err != nil {
		t.Fatalf("Incremental: %v", err)
	}
	if !bytes.Equal(got, original) {
		t.Errorf("expected unchanged bytes for empty patch list")
	}
}

func TestIncrementalAppendsAndPreservesOriginalBytes(t *testing.T) {
	original := samplePDF()
	patches := []types.Patch{
		{Ref: types.Ref{Num: 3, Gen: 0}, Body: []byte(`<< /Type /Page /Parent 2 0 R >>`)},
	}
	got, err := Incremental(original, patches)
	if err != nil {
		t.Fatalf("Incremental: %v", err)
	}
	if !bytes.HasPrefix(got, original) {
		t.Errorf("expected original bytes preserved verbatim as a prefix")
	}
	if !bytes.Contains(got, []byte("3 0 obj")) {
		t.Errorf("expected new object emitted, got %q", got)
	}
	if !bytes.Contains(got, []byte("/Prev")) {
		t.Errorf("expected /Prev chaining to original xref")
	}

	// The appended revision must itself be resolvable end to end.
	r, err := parse.NewResolver(got, types.NopSink{})
	if err != nil {
		t.Fatalf("resolving incremental output: %v", err)
	}
	body, ok := r.ObjectBody(types.Ref{Num: 3, Gen: 0})
	if !ok || !bytes.Contains(body, []byte("/Type /Page")) {
		t.Errorf("expected object 3 resolvable in new revision, got %q ok=%v", body, ok)
	}
	if r.RootRef() != (types.Ref{Num: 1, Gen: 0}) {
		t.Errorf("expected /Root carried into the new trailer, got %v", r.RootRef())
	}
	if _, ok := r.ObjectBody(types.Ref{Num: 1, Gen: 0}); !ok {
		t.Errorf("expected object 1 (from the prior revision) still resolvable via /Prev chasing")
	}
}
