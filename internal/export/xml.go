package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/GriffinCanCode/poseidon/internal/bag"
)

// XML renders the projection under a single root element. Nested maps and
// snapshots become child elements and slices repeat the parent element name.
// DropKeys does not apply since every element needs a name.
func XML(src Source, opts Options) ([]byte, error) {
	p := src.Project(bag.ProjectionOptions{Keys: opts.Keys, Exclude: opts.Exclude})

	var buf bytes.Buffer
	if opts.XMLDeclaration {
		buf.WriteString(xml.Header)
	}

	enc := xml.NewEncoder(&buf)
	if opts.Indent {
		enc.Indent("", "  ")
	}

	root := opts.XMLRoot
	if root == "" {
		root = DefaultXMLRoot
	}
	start := xml.StartElement{Name: xml.Name{Local: ElementName(root)}}

	if err := enc.EncodeToken(start); err != nil {
		return nil, fmt.Errorf("failed to encode xml root: %w", err)
	}
	for _, e := range p.Entries {
		if err := encodeElement(enc, e.Key, e.Value); err != nil {
			return nil, fmt.Errorf("failed to encode xml element %q: %w", e.Key, err)
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return nil, fmt.Errorf("failed to encode xml root: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush xml: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeElement(enc *xml.Encoder, name string, value any) error {
	start := xml.StartElement{Name: xml.Name{Local: ElementName(name)}}

	switch v := value.(type) {
	case bag.Snapshot:
		return encodeChildren(enc, start, v)
	case []byte:
		return encodeText(enc, start, string(v))
	case nil:
		return encodeText(enc, start, "")
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		children := make(bag.Snapshot, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			children = append(children, bag.Entry{Key: iter.Key().String(), Value: iter.Value().Interface()})
		}
		sort.Slice(children, func(i, j int) bool { return children[i].Key < children[j].Key })
		return encodeChildren(enc, start, children)
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return encodeText(enc, start, "")
		}
		for i := 0; i < rv.Len(); i++ {
			if err := encodeElement(enc, name, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	case reflect.Pointer:
		if rv.IsNil() {
			return encodeText(enc, start, "")
		}
		return encodeElement(enc, name, rv.Elem().Interface())
	}

	return encodeText(enc, start, fmt.Sprint(value))
}

func encodeChildren(enc *xml.Encoder, start xml.StartElement, children bag.Snapshot) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range children {
		if err := encodeElement(enc, child.Key, child.Value); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeText(enc *xml.Encoder, start xml.StartElement, text string) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// ElementName turns an arbitrary key into a valid XML element name. Invalid
// runes become underscores and a leading digit, dot or hyphen is prefixed
// with one.
func ElementName(key string) string {
	if key == "" {
		return "_"
	}

	var b strings.Builder
	for i, r := range key {
		switch {
		case r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r) || r == '-' || r == '.':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
