// pkg/eventstream/wire.go

package eventstream

import (
	"strings"

	cerr "github.com/cockroachdb/errors"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
)

// Record is one event as it appears in a recorded stream. The same field
// names are used by every format.
type Record struct {
	Kind       string  `json:"kind" yaml:"kind" msgpack:"kind"`
	Project    string  `json:"project,omitempty" yaml:"project,omitempty" msgpack:"project,omitempty"`
	Code       *string `json:"code,omitempty" yaml:"code,omitempty" msgpack:"code,omitempty"`
	Message    *string `json:"message,omitempty" yaml:"message,omitempty" msgpack:"message,omitempty"`
	File       *string `json:"file,omitempty" yaml:"file,omitempty" msgpack:"file,omitempty"`
	Line       int     `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
	Column     int     `json:"column,omitempty" yaml:"column,omitempty" msgpack:"column,omitempty"`
	Importance string  `json:"importance,omitempty" yaml:"importance,omitempty" msgpack:"importance,omitempty"`
	Sender     string  `json:"sender,omitempty" yaml:"sender,omitempty" msgpack:"sender,omitempty"`
	Node       int     `json:"node,omitempty" yaml:"node,omitempty" msgpack:"node,omitempty"`
}

var ErrUnknownKind = cerr.New("unknown event kind")

// kindLabel is the spelling written by Encode.
var kindLabel = map[buildevent.Kind]string{
	buildevent.KindProjectStarted: "project_started",
	buildevent.KindError:          "error",
	buildevent.KindWarning:        "warning",
	buildevent.KindMessage:        "message",
}

func parseKind(s string) (buildevent.Kind, error) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "projectstarted", "started":
		return buildevent.KindProjectStarted, nil
	case "error":
		return buildevent.KindError, nil
	case "warning":
		return buildevent.KindWarning, nil
	case "message":
		return buildevent.KindMessage, nil
	}
	return 0, cerr.Wrapf(ErrUnknownKind, "%q", s)
}

// Event converts r into a build event.
func (r Record) Event() (buildevent.Event, error) {
	kind, err := parseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	h := buildevent.Header{ProjectFile: r.Project, SenderName: r.Sender, NodeID: r.Node}

	switch kind {
	case buildevent.KindProjectStarted:
		return &buildevent.ProjectStarted{Header: h}, nil
	case buildevent.KindError:
		return &buildevent.Error{Header: h, Code: r.Code, Message: r.Message, File: r.File, Line: r.Line, Column: r.Column}, nil
	case buildevent.KindWarning:
		return &buildevent.Warning{Header: h, Code: r.Code, Message: r.Message, File: r.File, Line: r.Line, Column: r.Column}, nil
	default:
		imp := buildevent.ImportanceNormal
		if r.Importance != "" {
			if imp, err = buildevent.ParseImportance(r.Importance); err != nil {
				return nil, err
			}
		}
		return &buildevent.Message{Header: h, Message: r.Message, Importance: imp}, nil
	}
}

// FromEvent is the inverse of Record.Event.
func FromEvent(ev buildevent.Event) (Record, error) {
	switch e := ev.(type) {
	case *buildevent.ProjectStarted:
		return header(buildevent.KindProjectStarted, e.Header), nil
	case *buildevent.Error:
		r := header(buildevent.KindError, e.Header)
		r.Code, r.Message, r.File, r.Line, r.Column = e.Code, e.Message, e.File, e.Line, e.Column
		return r, nil
	case *buildevent.Warning:
		r := header(buildevent.KindWarning, e.Header)
		r.Code, r.Message, r.File, r.Line, r.Column = e.Code, e.Message, e.File, e.Line, e.Column
		return r, nil
	case *buildevent.Message:
		r := header(buildevent.KindMessage, e.Header)
		r.Message, r.Importance = e.Message, e.Importance.String()
		return r, nil
	}
	return Record{}, cerr.AssertionFailedf("unhandled event type %T", ev)
}

func header(k buildevent.Kind, h buildevent.Header) Record {
	return Record{Kind: kindLabel[k], Project: h.ProjectFile, Sender: h.SenderName, Node: h.NodeID}
}
