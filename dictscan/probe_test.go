package dictscan

import (
	"bytes"
	"testing"
)

func TestIsWidget(t *testing.T) {
	if !IsWidget([]byte(`<< /Type /Annot /Subtype /Widget /Rect [0 0 1 1] >>`)) {
		t.Errorf("expected widget")
	}
	if IsWidget([]byte(`<< /Type /Annot /Subtype /Link >>`)) {
		t.Errorf("expected non-widget")
	}
}

func TestIsPageExcludesPages(t *testing.T) {
	if !IsPage([]byte(`<< /Type /Page /Parent 1 0 R >>`)) {
		t.Errorf("expected page")
	}
	if IsPage([]byte(`<< /Type /Pages /Kids [1 0 R] >>`)) {
		t.Errorf("expected /Pages to not match is_page")
	}
}

func TestIsMultilineField(t *testing.T) {
	if !IsMultilineField([]byte(`<< /FT /Tx /Ff 4096 >>`)) {
		t.Errorf("expected multiline (bit 0x1000 set)")
	}
	if IsMultilineField([]byte(`<< /FT /Tx /Ff 0 >>`)) {
		t.Errorf("expected not multiline")
	}
}

func TestParseBox(t *testing.T) {
	box, ok := ParseBox([]byte(`<< /Type /Page /MediaBox [0 0 612 792] >>`), "MediaBox")
	if !ok {
		t.Fatalf("expected box to parse")
	}
	want := [4]float64{0, 0, 612, 792}
	if box != want {
		t.Errorf("got %v want %v", box, want)
	}
}

func TestAppearanceChoiceFor(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{true, "/Yes"},
		{false, "/Off"},
		{"Yes", "/Yes"},
		{"Off", "/Off"},
		{Name("Yes"), "/Yes"},
	}
	for _, c := range cases {
		got := AppearanceChoiceFor(c.in, nil)
		if got != c.want {
			t.Errorf("AppearanceChoiceFor(%v) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestRemoveAppearanceStream(t *testing.T) {
	dict := []byte(`<< /T (Name) /AP << /N 5 0 R >> /FT /Btn >>`)
	got := RemoveAppearanceStream(dict)
	if bytes.Contains(got, []byte("/AP")) {
		t.Errorf("expected /AP removed, got %q", got)
	}
}

func TestStripStreamBodies(t *testing.T) {
	data := []byte("<< /Length 4 >>\nstream\n\x00\x01\x02\x03\nendstream")
	got := StripStreamBodies(data)
	if bytes.Contains(got, []byte{0x00, 0x01, 0x02, 0x03}) {
		t.Errorf("expected stream body stripped, got %q", got)
	}
	if !bytes.Contains(got, []byte("endstream")) {
		t.Errorf("expected endstream keyword preserved")
	}
}
