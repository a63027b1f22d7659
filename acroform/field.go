// Package acroform implements the interactive-form actions (list, add,
// update, remove, clear) on top of the core/parse resolver and core/write
// writers, plus the dictscan toolkit for in-place dictionary edits.
package acroform

import "github.com/benedoc-inc/acroedit/types"

// FieldType is the PDF AcroForm /FT value, tagged as a Go enum instead of
// the format's class/mixin style so callers switch on it exhaustively.
type FieldType string

const (
	FieldText      FieldType = "/Tx"
	FieldButton    FieldType = "/Btn"
	FieldChoice    FieldType = "/Ch"
	FieldSignature FieldType = "/Sig"
)

// Button /Ff flag bits: bit 15 (0x8000) marks radio buttons, bit 16
// (0x10000) marks pushbuttons, and a plain button field with neither is a
// checkbox. Bit 14 (0x4000) is NoToggleToOff, meaningful only for radios.
const (
	ffRadio          = 1 << 15
	ffPushbutton     = 1 << 16
	ffNoToggleToOff  = 1 << 14
	ffCombo          = 1 << 17
	ffRadiosInUnison = 1 << 25
)

// Field is one logical AcroForm field: its dictionary object plus the
// position and value state an editor needs, per spec 4.6 list_fields.
type Field struct {
	Name  string
	Value string
	Type  FieldType
	Ref   types.Ref
	Page  int // 1-indexed; 0 when the owning page couldn't be determined
	Rect  [4]float64

	Flags int
}

// IsMultiline reports whether a text field has the multiline flag (bit
// 0x1000) set.
func (f Field) IsMultiline() bool {
	return f.Flags&0x1000 != 0
}

// IsRadio reports whether a button field is part of a radio group.
func (f Field) IsRadio() bool {
	return f.Type == FieldButton && f.Flags&ffRadio != 0
}

// IsCheckbox reports whether a button field is a plain checkbox (a button
// that is neither a radio group member nor a pushbutton).
func (f Field) IsCheckbox() bool {
	return f.Type == FieldButton && f.Flags&ffRadio == 0 && f.Flags&ffPushbutton == 0
}

// widgetInfo is one /Subtype /Widget annotation discovered during the
// list_fields single pass, keyed for later lookup by the field it belongs
// to (via /Parent) or by name (for flat field/widget objects), per spec
// 4.6 step 2.
type widgetInfo struct {
	Ref      types.Ref
	Rect     [4]float64
	HasRect  bool
	PageRef  types.Ref
	HasPage  bool
	ParentRef types.Ref
	HasParent bool
	Name     string
	HasName  bool
}
