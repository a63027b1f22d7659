package acroform

import (
	"regexp"
	"testing"
)

func TestClearKeepRetainsOnlyNamedFields(t *testing.T) {
	doc := openFixture(t)
	if err := doc.Clear(Selector{Keep: []string{"Agree"}}); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	fields := doc.ListFields()
	if len(fields) != 1 || fields[0].Name != "Agree" {
		t.Fatalf("after Clear(Keep=[Agree]), fields = %+v, want only Agree", fields)
	}
}

func TestClearPatternDropsMatchingFields(t *testing.T) {
	doc := openFixture(t)
	if err := doc.Clear(Selector{Pattern: regexp.MustCompile("^Name$")}); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, f := range doc.ListFields() {
		if f.Name == "Name" {
			t.Fatal("field Name survived a pattern clear that should have matched it")
		}
	}
}

func TestClearEmptySelectorDropsEveryField(t *testing.T) {
	doc := openFixture(t)
	if err := doc.Clear(Selector{}); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if fields := doc.ListFields(); len(fields) != 0 {
		t.Fatalf("Clear with an empty selector left fields: %+v", fields)
	}
}
