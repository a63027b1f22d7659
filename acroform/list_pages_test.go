package acroform

import "testing"

func TestListPagesOrderAndInheritedMediaBox(t *testing.T) {
	doc := openFixture(t)
	pages := doc.ListPages()
	if len(pages) != 2 {
		t.Fatalf("ListPages returned %d pages, want 2", len(pages))
	}

	p1 := pages[0]
	if p1.Number != 1 {
		t.Fatalf("pages[0].Number = %d, want 1", p1.Number)
	}
	if p1.Boxes.Media != [4]float64{0, 0, 612, 792} {
		t.Fatalf("page 1 did not inherit /MediaBox from /Pages: got %v", p1.Boxes.Media)
	}
	if p1.Width != 612 || p1.Height != 792 {
		t.Fatalf("page 1 Width/Height = %g/%g, want 612/792", p1.Width, p1.Height)
	}
	// No /CropBox on page 1 or its parent: CropBox falls back to MediaBox.
	if p1.Boxes.Crop != p1.Boxes.Media {
		t.Fatalf("page 1 CropBox = %v, want it to equal MediaBox %v", p1.Boxes.Crop, p1.Boxes.Media)
	}
	// No /ArtBox/BleedBox/TrimBox: all three fall back to CropBox.
	if p1.Boxes.Art != p1.Boxes.Crop || p1.Boxes.Bleed != p1.Boxes.Crop || p1.Boxes.Trim != p1.Boxes.Crop {
		t.Fatalf("page 1 Art/Bleed/Trim boxes did not fall back to CropBox: %+v", p1.Boxes)
	}

	p2 := pages[1]
	if p2.Number != 2 {
		t.Fatalf("pages[1].Number = %d, want 2", p2.Number)
	}
	if p2.Boxes.Crop != [4]float64{0, 0, 600, 780} {
		t.Fatalf("page 2's own /CropBox should win over inheritance: got %v", p2.Boxes.Crop)
	}
	if p2.Boxes.Art != p2.Boxes.Crop {
		t.Fatalf("page 2 ArtBox should fall back to its own CropBox: got %v, want %v", p2.Boxes.Art, p2.Boxes.Crop)
	}
}
