// Package record turns raw build events into immutable report records.
//
// Record is a closed set: *Error, *Warning and *Message. Every constructor
// normalises absent text to the empty string up front, so rendering never
// has to deal with missing values.
package record

import (
	"fmt"
	"strings"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/sanitize"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/winpath"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/xmltree"
)

// Record is a report entry that can render itself as an XML fragment.
type Record interface {
	Fragment() *xmltree.Element
	isRecord()
}

// diagnostic holds the fields shared by errors and warnings.
type diagnostic struct {
	code   string
	text   string
	file   string
	line   int
	column int
}

func newDiagnostic(code, text, file *string, line, column int) diagnostic {
	return diagnostic{
		code:   deref(code),
		text:   deref(text),
		file:   deref(file),
		line:   line,
		column: column,
	}
}

func (d diagnostic) Code() string { return d.code }
func (d diagnostic) Text() string { return d.text }
func (d diagnostic) File() string { return d.file }
func (d diagnostic) Line() int    { return d.line }
func (d diagnostic) Column() int  { return d.column }

// fragment renders code and message, plus dir/name/pos when a file is
// known. A blank file leaves the location attributes out entirely. Only the
// message is free text and carries the sanitation preamble; disallowed
// characters are silently stripped from code and paths.
func (d diagnostic) fragment(name string) *xmltree.Element {
	el := xmltree.New(name,
		xmltree.Attr{Name: "code", Value: sanitize.Strip(d.code)},
		xmltree.Attr{Name: "message", Value: sanitize.Text(d.text)},
	)
	if strings.TrimSpace(d.file) != "" {
		dir, base := winpath.Split(d.file)
		el.SetAttr("dir", sanitize.Strip(dir))
		el.SetAttr("name", sanitize.Strip(base))
		el.SetAttr("pos", fmt.Sprintf("(%d, %d)", d.line, d.column))
	}
	return el
}

type Error struct {
	diagnostic
}

// NewError builds an Error record. A nil event is rejected with
// ccnet_err.ErrInvalidArgument.
func NewError(e *buildevent.Error) (*Error, error) {
	if e == nil {
		return nil, ccnet_err.InvalidArgument("error event")
	}
	return &Error{newDiagnostic(e.Code, e.Message, e.File, e.Line, e.Column)}, nil
}

func (e *Error) Fragment() *xmltree.Element { return e.fragment("error") }
func (*Error) isRecord()                    {}

type Warning struct {
	diagnostic
}

// NewWarning builds a Warning record. A nil event is rejected with
// ccnet_err.ErrInvalidArgument.
func NewWarning(w *buildevent.Warning) (*Warning, error) {
	if w == nil {
		return nil, ccnet_err.InvalidArgument("warning event")
	}
	return &Warning{newDiagnostic(w.Code, w.Message, w.File, w.Line, w.Column)}, nil
}

func (w *Warning) Fragment() *xmltree.Element { return w.fragment("warning") }
func (*Warning) isRecord()                    {}

type Message struct {
	text       string
	importance buildevent.Importance
}

// NewMessage builds a Message record. A message has no meaningful default,
// so a nil event is rejected with ccnet_err.ErrInvalidArgument.
func NewMessage(m *buildevent.Message) (*Message, error) {
	if m == nil {
		return nil, ccnet_err.InvalidArgument("message event")
	}
	return &Message{text: deref(m.Message), importance: m.Importance}, nil
}

func (m *Message) Text() string                      { return m.text }
func (m *Message) Importance() buildevent.Importance { return m.importance }

func (m *Message) Fragment() *xmltree.Element {
	el := xmltree.New("message", xmltree.Attr{Name: "importance", Value: m.importance.String()})
	el.Text = sanitize.Text(m.text)
	return el
}

func (*Message) isRecord() {}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
