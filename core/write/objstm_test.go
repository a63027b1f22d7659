package write

import (
	"bytes"
	"testing"

	"github.com/benedoc-inc/acroedit/core/parse"
	"github.com/benedoc-inc/acroedit/types"
)

func TestEncodeObjStmObjectResolvableAfterRewrite(t *testing.T) {
	slots := []parse.ObjStmSlot{
		{Ref: types.Ref{Num: 10}, Body: []byte(`<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>`)},
	}
	objStm := ObjStmObject(types.Ref{Num: 20}, slots)

	objects := []Object{
		{Ref: types.Ref{Num: 1}, Body: []byte(`<< /Type /Catalog >>`)},
		objStm,
	}
	out, err := Rewrite(objects, types.Ref{Num: 1}, types.Ref{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	r, err := parse.NewResolver(out, types.NopSink{})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	body, ok := r.ObjectBody(types.Ref{Num: 20})
	if !ok {
		t.Fatalf("expected ObjStm container object to resolve")
	}
	if !bytes.Contains(body, []byte("/Type /ObjStm")) {
		t.Errorf("container body = %q", body)
	}
}
