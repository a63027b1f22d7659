package acroform

import (
	"testing"

	"github.com/benedoc-inc/acroedit/core/write"
	"github.com/benedoc-inc/acroedit/types"
)

// buildFixturePDF assembles a small two-page AcroForm document through the
// full-rewrite writer, giving every test in this package a real, resolver-
// parseable PDF byte buffer instead of a hand-maintained golden file: one
// flat text field, one flat checkbox field (with existing /Yes and /Off
// appearances), a shared Helvetica font resource, and a second, field-free
// page to exercise page-number resolution and AddField targeting.
func buildFixturePDF(t *testing.T) []byte {
	t.Helper()
	objects := []write.Object{
		{Ref: types.Ref{Num: 1}, Body: []byte("<< /Type /Catalog /Pages 2 0 R /AcroForm 6 0 R >>")},
		{Ref: types.Ref{Num: 2}, Body: []byte("<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 612 792] >>")},
		{Ref: types.Ref{Num: 3}, Body: []byte("<< /Type /Page /Parent 2 0 R /Annots [7 0 R 8 0 R] >>")},
		{Ref: types.Ref{Num: 4}, Body: []byte("<< /Type /Page /Parent 2 0 R /CropBox [0 0 600 780] >>")},
		{Ref: types.Ref{Num: 5}, Body: []byte("<< /Title (fixture) >>")},
		{Ref: types.Ref{Num: 6}, Body: []byte("<< /Fields [7 0 R 8 0 R] /DR << /Font << /Helv 9 0 R >> >> >>")},
		{Ref: types.Ref{Num: 7}, Body: []byte("<< /Type /Annot /Subtype /Widget /FT /Tx /T (Name) /V (hello) /Rect [100 600 300 620] /P 3 0 R /F 4 >>")},
		{Ref: types.Ref{Num: 8}, Body: []byte("<< /Type /Annot /Subtype /Widget /FT /Btn /T (Agree) /V /Off /Rect [100 550 120 570] /P 3 0 R /F 4 /AP << /N << /Yes 10 0 R /Off 11 0 R >> >> /AS /Off >>")},
		{Ref: types.Ref{Num: 9}, Body: []byte("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")},
		{Ref: types.Ref{Num: 10}, Body: []byte("<< /Type /XObject /Subtype /Form /BBox [0 0 20 20] /Length 0 >>\nstream\n\nendstream")},
		{Ref: types.Ref{Num: 11}, Body: []byte("<< /Type /XObject /Subtype /Form /BBox [0 0 20 20] /Length 0 >>\nstream\n\nendstream")},
	}
	out, err := write.Rewrite(objects, types.Ref{Num: 1}, types.Ref{Num: 5})
	if err != nil {
		t.Fatalf("building fixture PDF: %v", err)
	}
	return out
}

func openFixture(t *testing.T) *Document {
	t.Helper()
	doc, err := Open(buildFixturePDF(t), WithSink(types.NopSink{}))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return doc
}
