package acroform

import (
	"testing"

	"github.com/benedoc-inc/acroedit/types"
)

func TestRemoveFieldDropsItFromAcroFormAndAnnots(t *testing.T) {
	doc := openFixture(t)
	field, ok := doc.findFieldByName("Name")
	if !ok {
		t.Fatal("fixture missing field Name")
	}
	widgetRef, ok := doc.widgetRefForField(field)
	if !ok {
		t.Fatal("fixture field Name has no widget")
	}

	if err := doc.RemoveField("Name"); err != nil {
		t.Fatalf("RemoveField: %v", err)
	}

	if _, ok := doc.findFieldByName("Name"); ok {
		t.Fatal("field Name still resolvable after RemoveField")
	}

	acroRef, _ := doc.acroFormRef()
	acroBody, ok := doc.ObjectBody(acroRef)
	if !ok {
		t.Fatal("unresolvable /AcroForm after RemoveField")
	}
	if refs, ok := refArrayValue(acroBody, "Fields"); ok {
		for _, r := range refs {
			if r == field.Ref {
				t.Fatalf("/Fields still contains the removed field's ref %v", r)
			}
		}
	}

	pageBody, ok := doc.ObjectBody(types.Ref{Num: 3})
	if !ok {
		t.Fatal("unresolvable page 3")
	}
	if refs, ok := refArrayValue(pageBody, "Annots"); ok {
		for _, r := range refs {
			if r == widgetRef {
				t.Fatalf("page /Annots still contains the removed widget's ref %v", r)
			}
		}
	}
}

func TestRemoveFieldNotFound(t *testing.T) {
	doc := openFixture(t)
	err := doc.RemoveField("DoesNotExist")
	if err == nil {
		t.Fatal("expected an error for a missing field")
	}
	code, ok := types.GetErrorCode(err)
	if !ok || code != types.ErrCodeFieldNotFound {
		t.Fatalf("error code = %v (ok=%v), want ErrCodeFieldNotFound", code, ok)
	}
}
