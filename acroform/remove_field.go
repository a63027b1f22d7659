package acroform

import (
	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

// RemoveField deletes a field's widgets from their pages' /Annots arrays,
// drops the field from /AcroForm/Fields, and marks the field object itself
// deleted by clearing /T, per spec 4.7 RemoveField.
func (d *Document) RemoveField(name string) error {
	field, ok := d.findFieldByName(name)
	if !ok {
		return types.NewPDFErrorf(types.ErrCodeFieldNotFound, "field %q not found", name)
	}
	return d.removeFieldByRef(field)
}

func (d *Document) removeFieldByRef(field Field) error {
	for _, widgetRef := range d.widgetRefsForField(field) {
		widgetBody, ok := d.ObjectBody(widgetRef)
		if !ok {
			continue
		}
		if pageRef, ok := refValue(widgetBody, "P"); ok {
			if pageBody, ok := d.ObjectBody(pageRef); ok {
				pageBody = removeRefFromArrayField(d, pageBody, "Annots", widgetRef)
				d.Patches().Enqueue(pageRef, pageBody)
			}
		}
	}

	acroRef, ok := d.acroFormRef()
	if ok {
		acroBody, ok := d.ObjectBody(acroRef)
		if ok {
			acroBody = removeRefFromArrayField(d, acroBody, "Fields", field.Ref)
			d.Patches().Enqueue(acroRef, acroBody)
		}
	}

	fieldBody, ok := d.ObjectBody(field.Ref)
	if ok {
		fieldBody = dictscan.UpsertKeyValue(fieldBody, "T", []byte("()"))
		d.Patches().Enqueue(field.Ref, fieldBody)
	}
	return nil
}
