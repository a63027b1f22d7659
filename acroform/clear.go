package acroform

import "regexp"

// Selector decides which fields a Clear call should drop, per spec 4.6
// clear/clear!.
type Selector struct {
	// Keep, if non-nil, retains exactly these field names and drops every
	// other field.
	Keep []string
	// Remove, if non-nil (and Keep is nil), drops exactly these field
	// names and retains every other field.
	Remove []string
	// Pattern, if non-nil, drops every field whose name matches.
	Pattern *regexp.Regexp
	// Match, if non-nil, drops every field for which it returns true.
	Match func(Field) bool
}

// shouldRemove reports whether s selects f for removal.
func (s Selector) shouldRemove(f Field) bool {
	if s.Keep != nil {
		for _, name := range s.Keep {
			if name == f.Name {
				return false
			}
		}
		return true
	}
	if s.Remove != nil {
		for _, name := range s.Remove {
			if name == f.Name {
				return true
			}
		}
		return false
	}
	if s.Pattern != nil {
		return s.Pattern.MatchString(f.Name)
	}
	if s.Match != nil {
		return s.Match(f)
	}
	return true // an empty Selector matches everything: clear() drops all fields
}

// Clear removes every field selected by sel: their widgets are stripped
// from page /Annots arrays, the field objects themselves are dropped from
// /AcroForm/Fields and marked deleted, per spec 4.6 clear.
func (d *Document) Clear(sel Selector) error {
	for _, field := range d.ListFields() {
		if !sel.shouldRemove(field) {
			continue
		}
		if err := d.removeFieldByRef(field); err != nil {
			return err
		}
	}
	return nil
}
