// pkg/project/project.go

// Package project holds the per-project aggregate: every error, warning and
// message raised for one project file, in arrival order.
package project

import (
	"sync"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/record"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/sanitize"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/winpath"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/xmltree"
)

// Unassociated is the identity used for events that carry no project file.
const Unassociated = "MSBuild"

// Project is safe for concurrent Add calls. Rendering and the accessors take
// the same lock, so a reader never sees a half-appended record.
type Project struct {
	file string
	seq  uint64

	mu       sync.Mutex
	errors   []*record.Error
	warnings []*record.Warning
	messages []*record.Message
}

// New creates an empty project. seq orders projects in the report.
func New(file string, seq uint64) *Project {
	return &Project{file: file, seq: seq}
}

// File is the project identity.
func (p *Project) File() string { return p.file }

// Seq is the creation sequence number.
func (p *Project) Seq() uint64 { return p.seq }

// Add appends rec to the sequence matching its type.
func (p *Project) Add(rec record.Record) error {
	if rec == nil {
		return ccnet_err.InvalidArgument("record")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch r := rec.(type) {
	case *record.Error:
		p.errors = append(p.errors, r)
	case *record.Warning:
		p.warnings = append(p.warnings, r)
	case *record.Message:
		p.messages = append(p.messages, r)
	default:
		// record.Record is sealed; this only fires if a new variant is added
		// without teaching Project about it.
		panic("project: unhandled record type")
	}
	return nil
}

func (p *Project) ErrorCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.errors)
}

func (p *Project) WarningCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.warnings)
}

func (p *Project) MessageCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

// Errors returns a copy of the error sequence.
func (p *Project) Errors() []*record.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*record.Error(nil), p.errors...)
}

// Warnings returns a copy of the warning sequence.
func (p *Project) Warnings() []*record.Warning {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*record.Warning(nil), p.warnings...)
}

// Messages returns a copy of the message sequence.
func (p *Project) Messages() []*record.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*record.Message(nil), p.messages...)
}

// Fragment renders the project element: errors first, then warnings, then
// messages, each in arrival order.
func (p *Project) Fragment() *xmltree.Element {
	errs, warns, msgs := p.Errors(), p.Warnings(), p.Messages()

	dir, name := winpath.Split(p.file)
	el := xmltree.New("project",
		xmltree.Attr{Name: "dir", Value: sanitize.Strip(dir)},
		xmltree.Attr{Name: "name", Value: sanitize.Strip(name)},
	)
	el.Children = make([]*xmltree.Element, 0, len(errs)+len(warns)+len(msgs))
	for _, e := range errs {
		el.Add(e.Fragment())
	}
	for _, w := range warns {
		el.Add(w.Fragment())
	}
	for _, m := range msgs {
		el.Add(m.Fragment())
	}
	return el
}
