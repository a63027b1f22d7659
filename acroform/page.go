package acroform

import (
	"github.com/benedoc-inc/acroedit/types"
)

// Boxes holds a page's region rectangles, per spec 4.6 list_pages.
type Boxes struct {
	Media [4]float64
	Crop  [4]float64
	Art   [4]float64
	Bleed [4]float64
	Trim  [4]float64
}

// Page is one page object in document order, per spec 4.6 list_pages.
type Page struct {
	Ref      types.Ref
	Number   int // 1-indexed
	Width    float64
	Height   float64
	Boxes    Boxes
}

// orderedPageRefs walks the page tree depth-first from the catalog's
// /Pages root, returning every /Type /Page object in document order. It
// falls back to is_page-tagged objects in object-number order if the tree
// can't be walked (missing /Pages, broken /Kids chain).
func (d *Document) orderedPageRefs() []types.Ref {
	var pages []types.Ref
	visited := make(map[types.Ref]bool)

	catalogBody, ok := d.resolver.ObjectBody(d.resolver.RootRef())
	if ok {
		if pagesRef, ok := refValue(catalogBody, "Pages"); ok {
			d.walkPageTree(pagesRef, visited, &pages)
		}
	}

	if len(pages) > 0 {
		return pages
	}

	// Fallback: every is_page object, in ascending object-number order.
	var fallback []types.Ref
	d.resolver.EachObject(func(ref types.Ref, body []byte) bool {
		if isPage(body) {
			fallback = append(fallback, ref)
		}
		return true
	})
	return fallback
}

func (d *Document) walkPageTree(ref types.Ref, visited map[types.Ref]bool, out *[]types.Ref) {
	if visited[ref] {
		return
	}
	visited[ref] = true

	body, ok := d.resolver.ObjectBody(ref)
	if !ok {
		return
	}
	if isPage(body) {
		*out = append(*out, ref)
		return
	}

	kids, ok := refArrayValue(body, "Kids")
	if !ok {
		return
	}
	for _, kid := range kids {
		d.walkPageTree(kid, visited, out)
	}
}
