// Package xmltree is a small ordered XML element model. Unlike struct
// marshalling it keeps attributes in insertion order, which the report
// format treats as part of its contract.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	cerr "github.com/cockroachdb/errors"
)

// Declaration is written before the root element.
const Declaration = `version="1.0" encoding="utf-8"`

type Attr struct {
	Name  string
	Value string
}

// Element is a node with ordered attributes, child elements and text.
// Mixed content is not modelled: Text is written before any children.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
	Text     string
}

func New(name string, attrs ...Attr) *Element {
	return &Element{Name: name, Attrs: attrs}
}

// SetAttr replaces the value of an existing attribute or appends a new one.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Attr returns the named attribute's value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) Add(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Find returns the direct children with the given name, in order.
func (e *Element) Find(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

type Document struct {
	Root *Element
}

// Encode writes the declaration and the element tree. indent may be empty
// for compact output.
func (d *Document) Encode(w io.Writer, indent string) error {
	if d == nil || d.Root == nil {
		return cerr.New("xmltree: document has no root element")
	}

	if _, err := io.WriteString(w, "<?xml "+Declaration+"?>\n"); err != nil {
		return cerr.Wrap(err, "write declaration")
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", indent)
	if err := encodeElement(enc, d.Root); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return cerr.Wrap(err, "flush document")
	}
	return nil
}

// Bytes returns the indented encoding of the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf, "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeElement(enc *xml.Encoder, e *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return cerr.Wrapf(err, "write <%s>", e.Name)
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return cerr.Wrapf(err, "write text of <%s>", e.Name)
		}
	}
	for _, c := range e.Children {
		if err := encodeElement(enc, c); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return cerr.Wrapf(err, "write </%s>", e.Name)
	}
	return nil
}

// Parse reads a document back into a tree. Leaf elements keep their text
// exactly, whitespace included. In elements with children, whitespace-only
// runs are indentation and are discarded. Comments and processing
// instructions are skipped.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	var (
		stack []*Element
		// kept holds each open element's text minus whitespace-only runs.
		kept []string
	)
	doc := &Document{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, cerr.Wrap(err, "parse report")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := New(t.Name.Local)
			for _, a := range t.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, cerr.New("parse report: more than one root element")
				}
				doc.Root = el
			} else {
				stack[len(stack)-1].Add(el)
			}
			stack = append(stack, el)
			kept = append(kept, "")
		case xml.EndElement:
			top := len(stack) - 1
			if el := stack[top]; len(el.Children) > 0 {
				el.Text = kept[top]
			}
			stack, kept = stack[:top], kept[:top]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := len(stack) - 1
			stack[top].Text += string(t)
			if strings.TrimSpace(string(t)) != "" {
				kept[top] += string(t)
			}
		}
	}

	if doc.Root == nil {
		return nil, cerr.New("parse report: no root element")
	}
	return doc, nil
}
