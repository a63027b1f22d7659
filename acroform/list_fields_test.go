package acroform

import "testing"

func TestListFieldsReportsNameValueTypePageAndRect(t *testing.T) {
	doc := openFixture(t)
	fields := doc.ListFields()

	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	name, ok := byName["Name"]
	if !ok {
		t.Fatalf("missing field %q in %+v", "Name", fields)
	}
	if name.Type != FieldText || name.Value != "hello" || name.Page != 1 {
		t.Fatalf("field %q = %+v, want Type=/Tx Value=hello Page=1", "Name", name)
	}
	if name.Rect != [4]float64{100, 600, 300, 620} {
		t.Fatalf("field %q Rect = %v, want [100 600 300 620]", "Name", name.Rect)
	}

	agree, ok := byName["Agree"]
	if !ok {
		t.Fatalf("missing field %q in %+v", "Agree", fields)
	}
	if !agree.IsCheckbox() {
		t.Fatalf("field %q should be a checkbox, flags=%d", "Agree", agree.Flags)
	}
	if agree.Value != "Off" {
		t.Fatalf("field %q Value = %q, want Off", "Agree", agree.Value)
	}
}

func TestListFieldsIgnoresPageObjects(t *testing.T) {
	doc := openFixture(t)
	for _, f := range doc.ListFields() {
		if f.Name == "" {
			t.Fatalf("ListFields returned a nameless field: %+v", f)
		}
	}
}
