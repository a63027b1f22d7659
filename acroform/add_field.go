package acroform

import (
	"fmt"

	"github.com/benedoc-inc/acroedit/dictscan"
	"github.com/benedoc-inc/acroedit/types"
)

// AddFieldOptions configures AddField, per spec 4.7 AddField.
type AddFieldOptions struct {
	Type  FieldType
	Page  int // 1-indexed target page
	Rect  [4]float64
	Value any   // initial /V; nil picks the type's default
	Flags int   // /Ff override; 0 means "use the type's default"
}

const defaultRadioFlags = 1<<15 | 1<<14 // Radio (bit15) + NoToggleToOff (bit14)

// AddField allocates a field object and its widget annotation, wires them
// into the AcroForm /Fields array and the target page's /Annots array, and
// (for checkbox fields) synthesizes /Yes and /Off appearance streams, per
// spec 4.7 AddField.
func (d *Document) AddField(name string, opts AddFieldOptions) (Field, error) {
	pages := d.orderedPageRefs()
	if opts.Page < 1 || opts.Page > len(pages) {
		return Field{}, types.NewPDFErrorf(types.ErrCodeInvalidPageNumber, "page %d is out of range (document has %d pages)", opts.Page, len(pages))
	}
	pageRef := pages[opts.Page-1]

	refs := d.AllocateRefs(2)
	fieldRef, widgetRef := refs[0], refs[1]

	flags := opts.Flags
	normalizedValue := normalizeFieldValue(opts.Type, opts.Value)
	isSignatureImage := opts.Type == FieldSignature && looksLikeImagePayload(normalizedValue)

	fieldBody := buildFieldBody(opts.Type, name, flags, normalizedValue, isSignatureImage)
	widgetBody := buildWidgetBody(opts.Type, fieldRef, pageRef, opts.Rect, flags, normalizedValue)

	d.Patches().Enqueue(fieldRef, []byte(fieldBody))
	d.Patches().Enqueue(widgetRef, []byte(widgetBody))

	if err := d.wireFieldIntoAcroForm(fieldRef); err != nil {
		return Field{}, err
	}
	if err := d.wireWidgetIntoPage(pageRef, widgetRef); err != nil {
		return Field{}, err
	}

	if opts.Type == FieldButton && flags&ffRadio == 0 {
		if err := d.attachCheckboxAppearances(widgetRef, opts.Rect, normalizedValue); err != nil {
			return Field{}, err
		}
	}

	if isSignatureImage {
		if err := d.applySignatureAppearance(fieldRef, widgetRef, opts.Rect, normalizedValue); err != nil {
			return Field{}, err
		}
	}

	return Field{
		Name:  name,
		Value: normalizedValue,
		Type:  opts.Type,
		Ref:   fieldRef,
		Page:  opts.Page,
		Rect:  opts.Rect,
		Flags: flags,
	}, nil
}

func normalizeFieldValue(ft FieldType, value any) string {
	if ft == FieldButton {
		if truthy(value) {
			return "Yes"
		}
		return "Off"
	}
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "Yes" || v == "true" || v == "on" || v == "On" || v == "1"
	case nil:
		return false
	default:
		return true
	}
}

func buildFieldBody(ft FieldType, name string, flags int, value string, omitValue bool) string {
	nameToken := dictscan.EncodePDFName(name)
	if omitValue {
		return fmt.Sprintf("<< /FT %s /T %s /Ff %d /DA (/Helv 0 Tf 0 g) >>", ft, nameToken, flags)
	}
	var valueToken string
	if ft == FieldButton {
		valueToken = "/" + value
	} else {
		valueToken = string(dictscan.EncodeValue(value))
	}
	return fmt.Sprintf("<< /FT %s /T %s /Ff %d /DA (/Helv 0 Tf 0 g) /V %s >>",
		ft, nameToken, flags, valueToken)
}

func buildWidgetBody(ft FieldType, fieldRef, pageRef types.Ref, rect [4]float64, flags int, value string) string {
	var valueToken string
	if ft == FieldButton {
		valueToken = "/" + value
	} else {
		valueToken = string(dictscan.EncodeValue(value))
	}
	return fmt.Sprintf("<< /Type /Annot /Subtype /Widget /Parent %s /P %s /FT %s /Rect [%s] /F 4 /DA (/Helv 0 Tf 0 g) /V %s >>",
		fieldRef, pageRef, ft, formatRect(rect), valueToken)
}

func formatRect(r [4]float64) string {
	return fmt.Sprintf("%g %g %g %g", r[0], r[1], r[2], r[3])
}

// wireFieldIntoAcroForm patches the /AcroForm dictionary: adds fieldRef to
// /Fields, upserts /NeedAppearances true, drops /XFA, and ensures
// /DR/Font/Helv points at a Helvetica font object, allocating one if
// needed, per spec 4.7 AddField.
func (d *Document) wireFieldIntoAcroForm(fieldRef types.Ref) error {
	acroRef, ok := d.acroFormRef()
	if !ok {
		return types.NewPDFError(types.ErrCodeMalformedPDF, "document has no /AcroForm dictionary")
	}
	body, ok := d.ObjectBody(acroRef)
	if !ok {
		return types.NewPDFError(types.ErrCodeMalformedPDF, "unresolvable /AcroForm object")
	}

	body = appendRefToArrayField(d, body, "Fields", fieldRef)
	body = dictscan.UpsertKeyValue(body, "NeedAppearances", []byte("true"))
	body = dictscan.RemoveKey(body, "XFA")
	body = d.ensureHelveticaFont(body)

	d.Patches().Enqueue(acroRef, body)
	return nil
}

// ensureHelveticaFont ensures acroFormBody's /DR /Font /Helv entry exists,
// allocating and patching a Type1 Helvetica font object if absent.
func (d *Document) ensureHelveticaFont(acroFormBody []byte) []byte {
	if dictscan.FindKey(acroFormBody, "DR") {
		drTok, ok := dictscan.ValueTokenAfter(acroFormBody, "DR")
		if ok && drTok.Kind == dictscan.TokenDict {
			drStart := drTok.Start
			drEnd, ok := dictscan.ScanBalancedDict(acroFormBody, drStart)
			if ok {
				dr := acroFormBody[drStart:drEnd]
				if dictscan.FindKey(dr, "Font") {
					fontTok, ok := dictscan.ValueTokenAfter(dr, "Font")
					if ok && fontTok.Kind == dictscan.TokenDict {
						fontDictStart := fontTok.Start
						fontDictEnd, ok := dictscan.ScanBalancedDict(dr, fontDictStart)
						if ok {
							fontDict := dr[fontDictStart:fontDictEnd]
							if dictscan.FindKey(fontDict, "Helv") {
								return acroFormBody // already present
							}
						}
					}
				}
			}
		}
	}

	fontRef := d.AllocateRefs(1)[0]
	d.Patches().Enqueue(fontRef, []byte("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"))

	helvEntry := []byte(fmt.Sprintf("/Helv %s", fontRef))
	if !dictscan.FindKey(acroFormBody, "DR") {
		return dictscan.UpsertKeyValue(acroFormBody, "DR", []byte(fmt.Sprintf("<< /Font << %s >> >>", helvEntry)))
	}
	drTok, ok := dictscan.ValueTokenAfter(acroFormBody, "DR")
	if !ok {
		return acroFormBody
	}
	drEnd, ok := dictscan.ScanBalancedDict(acroFormBody, drTok.Start)
	if !ok {
		return acroFormBody
	}
	dr := acroFormBody[drTok.Start:drEnd]
	newDR := dictscan.UpsertKeyValue(dr, "Font", []byte(fmt.Sprintf("<< %s >>", helvEntry)))
	return dictscan.ReplaceKeyValue(acroFormBody, "DR", newDR)
}

// wireWidgetIntoPage adds widgetRef to pageRef's /Annots array.
func (d *Document) wireWidgetIntoPage(pageRef, widgetRef types.Ref) error {
	body, ok := d.ObjectBody(pageRef)
	if !ok {
		return types.NewPDFError(types.ErrCodeMalformedPDF, "unresolvable page object")
	}
	body = appendRefToArrayField(d, body, "Annots", widgetRef)
	d.Patches().Enqueue(pageRef, body)
	return nil
}
