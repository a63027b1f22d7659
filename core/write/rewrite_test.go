package write

import (
	"bytes"
	"testing"

	"github.com/benedoc-inc/acroedit/core/parse"
	"github.com/benedoc-inc/acroedit/types"
)

func TestRewriteProducesResolvableDocument(t *testing.T) {
	objects := []Object{
		{Ref: types.Ref{Num: 1}, Body: []byte(`<< /Type /Catalog /Pages 2 0 R >>`)},
		{Ref: types.Ref{Num: 2}, Body: []byte(`<< /Type /Pages /Kids [3 0 R] /Count 1 >>`)},
		{Ref: types.Ref{Num: 3}, Body: []byte(`<< /Type /Page /Parent 2 0 R >>`)},
	}
	out, err := Rewrite(objects, types.Ref{Num: 1}, types.Ref{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-1.6\n")) {
		t.Errorf("expected binary header, got %q", out[:20])
	}

	r, err := parse.NewResolver(out, types.NopSink{})
	if err != nil {
		t.Fatalf("resolving rewritten output: %v", err)
	}
	if r.RootRef() != (types.Ref{Num: 1}) {
		t.Errorf("RootRef = %v", r.RootRef())
	}
	for _, obj := range objects {
		body, ok := r.ObjectBody(obj.Ref)
		if !ok {
			t.Errorf("object %d did not resolve", obj.Ref.Num)
			continue
		}
		if !bytes.Equal(bytes.TrimSpace(body), bytes.TrimSpace(obj.Body)) {
			t.Errorf("object %d body = %q want %q", obj.Ref.Num, body, obj.Body)
		}
	}
}

func TestRewriteRejectsZeroRoot(t *testing.T) {
	_, err := Rewrite(nil, types.Ref{}, types.Ref{})
	if err == nil {
		t.Fatalf("expected error for zero /Root")
	}
}

func TestRewriteGapsBecomeFreeEntries(t *testing.T) {
	objects := []Object{
		{Ref: types.Ref{Num: 1}, Body: []byte(`<< /Type /Catalog >>`)},
		{Ref: types.Ref{Num: 4}, Body: []byte(`<< /Type /Page >>`)},
	}
	out, err := Rewrite(objects, types.Ref{Num: 1}, types.Ref{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if !bytes.Contains(out, []byte("0 5\n")) {
		t.Errorf("expected a single subsection covering objects 0-4, got %q", out)
	}
}
