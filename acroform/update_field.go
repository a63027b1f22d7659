package acroform

import (
	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

// UpdateFieldOptions configures UpdateField, per spec 4.7 UpdateField.
type UpdateFieldOptions struct {
	Value   any
	NewName string // renames /T when non-empty
}

// UpdateField rewrites a field's /V (and the matching /AS on button
// widgets), renames /T when requested, and ensures
// /AcroForm/NeedAppearances, per spec 4.7 UpdateField.
func (d *Document) UpdateField(name string, opts UpdateFieldOptions) error {
	field, ok := d.findFieldByName(name)
	if !ok {
		return types.NewPDFErrorf(types.ErrCodeFieldNotFound, "field %q not found", name)
	}

	if field.Type == FieldSignature {
		if raw, ok := opts.Value.(string); ok && looksLikeImagePayload(raw) {
			widgetRef, ok := d.widgetRefForField(field)
			if !ok {
				return types.NewPDFErrorf(types.ErrCodeFieldNotFound, "no widget found for signature field %q", name)
			}
			if err := d.applySignatureAppearance(field.Ref, widgetRef, field.Rect, raw); err != nil {
				return err
			}
			return d.renameFieldIfRequested(field, opts.NewName)
		}
	}

	normalized := normalizeFieldValue(field.Type, opts.Value)

	fieldBody, ok := d.ObjectBody(field.Ref)
	if !ok {
		return types.NewPDFErrorf(types.ErrCodeObjectNotFound, "field object %s unresolvable", field.Ref)
	}
	var valueToken []byte
	if field.Type == FieldButton {
		valueToken = []byte("/" + normalized)
	} else {
		valueToken = dictscan.EncodeValue(normalized)
	}
	fieldBody = dictscan.UpsertKeyValue(fieldBody, "V", valueToken)
	d.Patches().Enqueue(field.Ref, fieldBody)

	for _, widgetRef := range d.widgetRefsForField(field) {
		widgetBody, ok := d.ObjectBody(widgetRef)
		if !ok {
			continue
		}
		switch field.Type {
		case FieldButton:
			as := dictscan.AppearanceChoiceFor(normalized, nil)
			widgetBody = dictscan.UpsertKeyValue(widgetBody, "AS", []byte(as))
			widgetBody = dictscan.UpsertKeyValue(widgetBody, "V", []byte("/"+normalized))
		case FieldText, FieldChoice:
			widgetBody = dictscan.UpsertKeyValue(widgetBody, "V", valueToken)
			if field.IsMultiline() {
				widgetBody = dictscan.RemoveAppearanceStream(widgetBody)
			}
		}
		d.Patches().Enqueue(widgetRef, widgetBody)
	}

	if err := d.setNeedAppearances(); err != nil {
		return err
	}
	return d.renameFieldIfRequested(field, opts.NewName)
}

func (d *Document) renameFieldIfRequested(field Field, newName string) error {
	if newName == "" {
		return nil
	}
	body, ok := d.ObjectBody(field.Ref)
	if !ok {
		return types.NewPDFErrorf(types.ErrCodeObjectNotFound, "field object %s unresolvable", field.Ref)
	}
	body = dictscan.UpsertKeyValue(body, "T", []byte(dictscan.EncodePDFName(newName)))
	d.Patches().Enqueue(field.Ref, body)
	return nil
}

func (d *Document) setNeedAppearances() error {
	acroRef, ok := d.acroFormRef()
	if !ok {
		return types.NewPDFError(types.ErrCodeMalformedPDF, "document has no /AcroForm dictionary")
	}
	body, ok := d.ObjectBody(acroRef)
	if !ok {
		return types.NewPDFError(types.ErrCodeMalformedPDF, "unresolvable /AcroForm object")
	}
	body = dictscan.UpsertKeyValue(body, "NeedAppearances", []byte("true"))
	d.Patches().Enqueue(acroRef, body)
	return nil
}

// widgetRefsForField returns every widget annotation belonging to field:
// widgets whose /Parent points at field.Ref and parentless widgets whose /T
// equals field.Name. When none match and field.Ref is itself a widget (a
// flat field), it returns field.Ref alone.
func (d *Document) widgetRefsForField(field Field) []types.Ref {
	var refs []types.Ref
	d.resolver.EachObject(func(ref types.Ref, body []byte) bool {
		if !isWidget(body) {
			return true
		}
		if parentRef, ok := refValue(body, "Parent"); ok && parentRef == field.Ref {
			refs = append(refs, ref)
			return true
		}
		if name, ok := nameValue(body, "T"); ok && name == field.Name && parentlessWidget(body) {
			refs = append(refs, ref)
		}
		return true
	})
	if len(refs) == 0 {
		if body, ok := d.ObjectBody(field.Ref); ok && isWidget(body) {
			refs = append(refs, field.Ref)
		}
	}
	return refs
}

func parentlessWidget(body []byte) bool {
	return !dictscan.FindKey(body, "Parent")
}

func (d *Document) widgetRefForField(field Field) (types.Ref, bool) {
	refs := d.widgetRefsForField(field)
	if len(refs) == 0 {
		return types.Ref{}, false
	}
	return refs[0], true
}
