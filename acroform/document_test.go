package acroform

import (
	"bytes"
	"testing"

	"github.com/benedoc-inc/acroedit/internal/difftest"
)

func TestOpenResolvesCatalogAndFields(t *testing.T) {
	doc := openFixture(t)
	if doc.resolver.RootRef().Num != 1 {
		t.Fatalf("RootRef = %v, want object 1", doc.resolver.RootRef())
	}
	fields := doc.ListFields()
	if len(fields) != 2 {
		t.Fatalf("ListFields returned %d fields, want 2", len(fields))
	}
}

func TestWriteWithNoPatchesReturnsOriginalBytes(t *testing.T) {
	raw := buildFixturePDF(t)
	doc, err := Open(raw)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	out, err := doc.Write(false)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(out, raw) {
		t.Fatalf("Write with an empty patch queue changed the bytes:\n%s", difftest.Unified(difftest.Lines(string(raw), string(out))))
	}
}

func TestFlattenPreservesEveryLiveObject(t *testing.T) {
	doc := openFixture(t)
	before := doc.ListFields()

	out, err := doc.Flatten()
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	doc2, err := Open(out)
	if err != nil {
		t.Fatalf("reopening flattened output: %v", err)
	}
	after := doc2.ListFields()

	if len(before) != len(after) {
		t.Fatalf("field count changed across flatten: before=%d after=%d", len(before), len(after))
	}
	for i := range before {
		if before[i].Name != after[i].Name || before[i].Value != after[i].Value {
			t.Fatalf("field %d changed across flatten: before=%+v after=%+v", i, before[i], after[i])
		}
	}
}

func TestFlattenIsIdempotentOnASecondPass(t *testing.T) {
	doc := openFixture(t)
	first, err := doc.Flatten()
	if err != nil {
		t.Fatalf("first Flatten: %v", err)
	}
	doc2, err := Open(first)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	second, err := doc2.Flatten()
	if err != nil {
		t.Fatalf("second Flatten: %v", err)
	}
	if !difftest.Equal(string(first), string(second)) {
		t.Fatalf("flattening a flattened document changed its bytes:\n%s", difftest.Unified(difftest.Lines(string(first), string(second))))
	}
}
