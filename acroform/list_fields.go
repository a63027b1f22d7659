package acroform

import (
	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

// ListFields enumerates every AcroForm field in a single pass over the
// document's objects, per spec 4.6 list_fields.
func (d *Document) ListFields() []Field {
	widgetsByParent := make(map[types.Ref]widgetInfo)
	widgetsByName := make(map[string]widgetInfo)
	var flatFieldWidgets []widgetInfo // widgets that are also fields themselves

	type candidate struct {
		ref  types.Ref
		body []byte
	}
	var candidates []candidate

	d.EachObjectWithPatches(func(ref types.Ref, body []byte) bool {
		if isWidget(body) {
			w := widgetInfo{Ref: ref}
			if rect, ok := dictscan.ParseBox(body, "Rect"); ok {
				w.Rect, w.HasRect = rect, true
			}
			if pageRef, ok := refValue(body, "P"); ok {
				w.PageRef, w.HasPage = pageRef, true
			}
			if parentRef, ok := refValue(body, "Parent"); ok {
				w.ParentRef, w.HasParent = parentRef, true
				widgetsByParent[parentRef] = w
			}
			if name, ok := nameValue(body, "T"); ok && name != "" {
				w.Name, w.HasName = name, true
				widgetsByName[name] = w
			}
			if !w.HasParent {
				flatFieldWidgets = append(flatFieldWidgets, w)
			}
		}

		if isFieldCandidate(body) {
			candidates = append(candidates, candidate{ref: ref, body: body})
		}
		return true
	})

	pages := d.orderedPageRefs()
	pagePosition := make(map[types.Ref]int, len(pages))
	for i, ref := range pages {
		pagePosition[ref] = i + 1
	}

	byName := make(map[string]Field)
	order := make([]string, 0, len(candidates))

	for _, c := range candidates {
		name, ok := nameValue(c.body, "T")
		if !ok || name == "" || name == "()" {
			continue
		}

		ft := string(FieldText)
		if v, ok := nameValue(c.body, "FT"); ok && v != "" {
			ft = "/" + v // nameValue drops the slash; FieldType keeps it
		}
		field := Field{
			Name: name,
			Type: FieldType(ft),
			Ref:  c.ref,
		}
		if flags, ok := intValue(c.body, "Ff"); ok {
			field.Flags = flags
		}
		if v, ok := nameValue(c.body, "V"); ok {
			field.Value = v
		}

		// Position: prefer a widget keyed by this field's own ref (parent
		// match), then one keyed by name, then the field object itself if
		// it is a flat widget/field.
		var w widgetInfo
		var haveWidget bool
		if wi, ok := widgetsByParent[c.ref]; ok {
			w, haveWidget = wi, true
		} else if wi, ok := widgetsByName[name]; ok {
			w, haveWidget = wi, true
		} else if isWidget(c.body) {
			w, haveWidget = widgetInfo{Ref: c.ref}, true
			if rect, ok := dictscan.ParseBox(c.body, "Rect"); ok {
				w.Rect, w.HasRect = rect, true
			}
			if pageRef, ok := refValue(c.body, "P"); ok {
				w.PageRef, w.HasPage = pageRef, true
			}
		}
		if haveWidget {
			field.Rect = w.Rect
			if w.HasPage {
				field.Page = pagePosition[w.PageRef]
			}
		}

		existing, seen := byName[name]
		if !seen || c.ref.Num < existing.Ref.Num {
			if !seen {
				order = append(order, name)
			}
			byName[name] = field
		}
	}

	out := make([]Field, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

// isFieldCandidate reports whether body carries /T and at least one of {/FT, /Subtype /Widget, /Kids, /Parent}, per spec
// 4.6 step 3.
func isFieldCandidate(body []byte) bool {
	if !dictscan.FindKey(body, "T") {
		return false
	}
	if dictscan.FindKey(body, "FT") {
		return true
	}
	if isWidget(body) {
		return true
	}
	if dictscan.FindKey(body, "Kids") {
		return true
	}
	if dictscan.FindKey(body, "Parent") {
		return true
	}
	return false
}
