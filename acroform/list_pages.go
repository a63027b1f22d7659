package acroform

import (
	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

var defaultMediaBox = [4]float64{0, 0, 612, 792} // US Letter

// ListPages returns every page object in document order, 1-indexed, with
// its inherited /MediaBox and /CropBox and its own /ArtBox, /BleedBox,
// /TrimBox (falling back to /CropBox, per PDF's own inheritance rule), the
// same ordering list_fields uses to assign a widget's page number, per spec
// 4.6 list_pages.
func (d *Document) ListPages() []Page {
	refs := d.orderedPageRefs()
	pages := make([]Page, len(refs))
	for i, ref := range refs {
		body, _ := d.resolver.ObjectBody(ref)

		media := d.inheritedBox(ref, body, "MediaBox", defaultMediaBox)
		crop := d.inheritedBox(ref, body, "CropBox", media)

		art := crop
		if b, ok := dictscan.ParseBox(body, "ArtBox"); ok {
			art = b
		}
		bleed := crop
		if b, ok := dictscan.ParseBox(body, "BleedBox"); ok {
			bleed = b
		}
		trim := crop
		if b, ok := dictscan.ParseBox(body, "TrimBox"); ok {
			trim = b
		}

		pages[i] = Page{
			Ref:    ref,
			Number: i + 1,
			Width:  media[2] - media[0],
			Height: media[3] - media[1],
			Boxes:  Boxes{Media: media, Crop: crop, Art: art, Bleed: bleed, Trim: trim},
		}
	}
	return pages
}

// inheritedBox reads key off body, walking up /Parent when absent, since
// /MediaBox and /CropBox are inheritable from the page tree.
func (d *Document) inheritedBox(ref types.Ref, body []byte, key string, fallback [4]float64) [4]float64 {
	visited := make(map[types.Ref]bool)
	for {
		if box, ok := dictscan.ParseBox(body, key); ok {
			return box
		}
		parentRef, ok := refValue(body, "Parent")
		if !ok || visited[parentRef] {
			return fallback
		}
		visited[parentRef] = true
		parentBody, ok := d.resolver.ObjectBody(parentRef)
		if !ok {
			return fallback
		}
		body = parentBody
	}
}
