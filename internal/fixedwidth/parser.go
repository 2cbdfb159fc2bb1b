// Package fixedwidth decodes positional fixed-width text records into typed
// fields.
//
// Price files carry one trading day per line with no delimiter between
// columns; each column occupies an exact number of characters. Parsing is
// therefore literal character counting, never whitespace tokenization:
// adjacent columns may abut without a separator, and a numeric column may
// contain leading spaces that belong to the column itself.
package fixedwidth

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the declared type of a layout field.
type Kind int

const (
	// KindFloat decodes the field as a float64.
	KindFloat Kind = iota
	// KindInt decodes the field as an int64.
	KindInt
	// KindDate decodes the field as a calendar date. The date field is not
	// retained as a regular column; it becomes the record's index key.
	KindDate
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float64"
	case KindInt:
		return "int64"
	case KindDate:
		return "datetime64"
	default:
		return "unknown"
	}
}

// DefaultDateLayout is the date format used when a layout does not specify
// its own.
const DefaultDateLayout = "2006-01-02"

// Field describes one positional column: its name, its exact width in
// characters, and how its text decodes.
type Field struct {
	Name  string
	Width int
	Kind  Kind
}

// Layout is an ordered set of fields describing one line of a fixed-width
// file. Fields are consumed left to right in slice order.
type Layout struct {
	Fields     []Field
	DateLayout string // optional, defaults to DefaultDateLayout
}

// TotalWidth returns the number of characters a full line occupies.
func (l Layout) TotalWidth() int {
	var total int
	for _, f := range l.Fields {
		total += f.Width
	}
	return total
}

// Validate checks that the layout is usable: at least one field, positive
// widths, unique names, and exactly one date field.
func (l Layout) Validate() error {
	if len(l.Fields) == 0 {
		return fmt.Errorf("layout has no fields")
	}
	seen := make(map[string]bool, len(l.Fields))
	dates := 0
	for _, f := range l.Fields {
		if f.Name == "" {
			return fmt.Errorf("layout field with empty name")
		}
		if f.Width <= 0 {
			return fmt.Errorf("layout field %q has non-positive width %d", f.Name, f.Width)
		}
		if seen[f.Name] {
			return fmt.Errorf("layout field %q appears more than once", f.Name)
		}
		seen[f.Name] = true
		if f.Kind == KindDate {
			dates++
		}
	}
	if dates != 1 {
		return fmt.Errorf("layout must declare exactly one date field, got %d", dates)
	}
	return nil
}

func (l Layout) dateLayout() string {
	if l.DateLayout != "" {
		return l.DateLayout
	}
	return DefaultDateLayout
}

// ParseError reports a field that could not be decoded under its declared
// width and type.
type ParseError struct {
	Field string // field name from the layout
	Pos   int    // character offset where the field starts
	Text  string // the slice that failed to decode
	Err   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("field %q at offset %d: cannot decode %q: %v", e.Field, e.Pos, e.Text, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() error { return e.Err }

// Record is one decoded line. The date field is carried as the index key in
// Date; every other field is available by name through Float and Int.
type Record struct {
	Date time.Time

	floats map[string]float64
	ints   map[string]int64
	raw    []string // original slice per layout field, in layout order
}

// Float returns the named float64 field. The second value is false when the
// layout has no such field.
func (r Record) Float(name string) (float64, bool) {
	v, ok := r.floats[name]
	return v, ok
}

// Int returns the named int64 field. The second value is false when the
// layout has no such field.
func (r Record) Int(name string) (int64, bool) {
	v, ok := r.ints[name]
	return v, ok
}

// ParseLine decodes one line according to the layout. It slices exactly
// Width characters per field in layout order, trims surrounding spaces, and
// decodes the slice under the field's declared kind. A slice that cannot be
// decoded (including an empty slice from a truncated line) yields a
// *ParseError. Characters beyond the layout's total width are ignored.
func (l Layout) ParseLine(line string) (Record, error) {
	rec := Record{
		floats: make(map[string]float64),
		ints:   make(map[string]int64),
		raw:    make([]string, 0, len(l.Fields)),
	}

	pos := 0
	for _, f := range l.Fields {
		end := pos + f.Width
		if end > len(line) {
			end = len(line)
		}
		var slice string
		if pos < len(line) {
			slice = line[pos:end]
		}
		rec.raw = append(rec.raw, slice)

		text := strings.TrimSpace(slice)
		switch f.Kind {
		case KindFloat:
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return Record{}, &ParseError{Field: f.Name, Pos: pos, Text: slice, Err: err}
			}
			rec.floats[f.Name] = v
		case KindInt:
			v, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return Record{}, &ParseError{Field: f.Name, Pos: pos, Text: slice, Err: err}
			}
			rec.ints[f.Name] = v
		case KindDate:
			d, err := time.Parse(l.dateLayout(), text)
			if err != nil {
				return Record{}, &ParseError{Field: f.Name, Pos: pos, Text: slice, Err: err}
			}
			rec.Date = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		}
		pos += f.Width
	}

	return rec, nil
}

// EncodeRecord reproduces the original line of a parsed record by
// concatenating each field's raw slice at its original width. For any line
// accepted by ParseLine, EncodeRecord(ParseLine(line)) == line up to the
// layout's total width.
func (l Layout) EncodeRecord(r Record) string {
	var b strings.Builder
	b.Grow(l.TotalWidth())
	for _, slice := range r.raw {
		b.WriteString(slice)
	}
	return b.String()
}
