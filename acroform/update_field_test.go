package acroform

import (
	"testing"

	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

func TestUpdateFieldTextValue(t *testing.T) {
	doc := openFixture(t)
	if err := doc.UpdateField("Name", UpdateFieldOptions{Value: "updated"}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	field, ok := doc.findFieldByName("Name")
	if !ok {
		t.Fatal("field Name missing after UpdateField")
	}
	if field.Value != "updated" {
		t.Fatalf("field Name value = %q, want updated", field.Value)
	}

	acroRef, ok := doc.acroFormRef()
	if !ok {
		t.Fatal("no /AcroForm ref")
	}
	body, ok := doc.ObjectBody(acroRef)
	if !ok {
		t.Fatal("unresolvable /AcroForm body")
	}
	if !dictscan.FindKey(body, "NeedAppearances") {
		t.Fatal("UpdateField did not set /AcroForm/NeedAppearances")
	}
}

func TestUpdateFieldCheckboxSetsAppearanceState(t *testing.T) {
	doc := openFixture(t)
	if err := doc.UpdateField("Agree", UpdateFieldOptions{Value: true}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}

	field, ok := doc.findFieldByName("Agree")
	if !ok {
		t.Fatal("field Agree missing after UpdateField")
	}
	if field.Value != "Yes" {
		t.Fatalf("checkbox value = %q, want Yes", field.Value)
	}

	widgetRef, ok := doc.widgetRefForField(field)
	if !ok {
		t.Fatal("no widget found for Agree")
	}
	widgetBody, ok := doc.ObjectBody(widgetRef)
	if !ok {
		t.Fatal("unresolvable widget body")
	}
	as, ok := nameValue(widgetBody, "AS")
	if !ok || as != "Yes" {
		t.Fatalf("widget /AS = %q, want Yes", as)
	}
}

func TestUpdateFieldRename(t *testing.T) {
	doc := openFixture(t)
	if err := doc.UpdateField("Name", UpdateFieldOptions{NewName: "FullName"}); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if _, ok := doc.findFieldByName("Name"); ok {
		t.Fatal("old field name still resolvable after rename")
	}
	if _, ok := doc.findFieldByName("FullName"); !ok {
		t.Fatal("renamed field not resolvable under its new name")
	}
}

func TestUpdateFieldNotFound(t *testing.T) {
	doc := openFixture(t)
	err := doc.UpdateField("DoesNotExist", UpdateFieldOptions{Value: "x"})
	if err == nil {
		t.Fatal("expected an error for a missing field")
	}
	code, ok := types.GetErrorCode(err)
	if !ok || code != types.ErrCodeFieldNotFound {
		t.Fatalf("error code = %v (ok=%v), want ErrCodeFieldNotFound", code, ok)
	}
}
