// pkg/buildevent/event.go

// Package buildevent defines the build lifecycle events raised by the build
// orchestrator. Event is a closed union: only the four types in this package
// implement it.
package buildevent

// Kind identifies the concrete event type.
type Kind uint8

const (
	KindProjectStarted Kind = iota + 1
	KindError
	KindWarning
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindProjectStarted:
		return "project-started"
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindMessage:
		return "message"
	}
	return "unknown"
}

// Event is implemented by *ProjectStarted, *Error, *Warning and *Message.
type Event interface {
	Kind() Kind
	// Project returns the raw project file, which may be empty.
	Project() string
	// Node is the orchestrator worker that raised the event.
	Node() int
	isEvent()
}

// Header carries the fields every event shares.
type Header struct {
	ProjectFile string
	SenderName  string
	// NodeID is the orchestrator worker that raised the event.
	NodeID int
}

func (h Header) Project() string { return h.ProjectFile }
func (h Header) Node() int       { return h.NodeID }

type ProjectStarted struct {
	Header
}

func (*ProjectStarted) Kind() Kind { return KindProjectStarted }
func (*ProjectStarted) isEvent()   {}

// Error is a build error. Nil Code, Message or File means the orchestrator
// did not supply the field.
type Error struct {
	Header
	Code    *string
	Message *string
	File    *string
	Line    int
	Column  int
}

func (*Error) Kind() Kind { return KindError }
func (*Error) isEvent()   {}

// Warning has the same shape as Error.
type Warning struct {
	Header
	Code    *string
	Message *string
	File    *string
	Line    int
	Column  int
}

func (*Warning) Kind() Kind { return KindWarning }
func (*Warning) isEvent()   {}

type Message struct {
	Header
	Message    *string
	Importance Importance
}

func (*Message) Kind() Kind { return KindMessage }
func (*Message) isEvent()   {}

// String returns a pointer to s, for building events in code.
func String(s string) *string { return &s }
