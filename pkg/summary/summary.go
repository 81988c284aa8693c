// pkg/summary/summary.go

// Package summary reads a written report back and reports its counts.
package summary

import (
	"context"
	"io"
	"os"
	"strconv"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/output"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/report"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/xmltree"
)

var ErrCountMismatch = cerr.New("report counts do not match its projects")

type Project struct {
	Dir      string `json:"dir"`
	Name     string `json:"name"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Messages int    `json:"messages"`
}

// Summary holds the counts declared on the root element next to the counts
// found by walking the projects.
type Summary struct {
	DeclaredErrors   int       `json:"declared_errors"`
	DeclaredWarnings int       `json:"declared_warnings"`
	Errors           int       `json:"errors"`
	Warnings         int       `json:"warnings"`
	Messages         int       `json:"messages"`
	Projects         []Project `json:"projects"`
}

// Parse reads a report document from r.
func Parse(r io.Reader) (*Summary, error) {
	doc, err := xmltree.Parse(r)
	if err != nil {
		return nil, ccnet_err.NewValidationError("report is not well-formed XML", err)
	}
	root := doc.Root
	if root.Name != report.RootElement {
		return nil, ccnet_err.NewValidationError("not a ccnetlog report",
			cerr.Newf("root element is <%s>, want <%s>", root.Name, report.RootElement))
	}

	s := &Summary{Projects: []Project{}}
	if s.DeclaredErrors, err = countAttr(root, "error_count"); err != nil {
		return nil, err
	}
	if s.DeclaredWarnings, err = countAttr(root, "warning_count"); err != nil {
		return nil, err
	}

	for _, p := range root.Find("project") {
		dir, _ := p.Attr("dir")
		name, _ := p.Attr("name")
		ps := Project{
			Dir:      dir,
			Name:     name,
			Errors:   len(p.Find("error")),
			Warnings: len(p.Find("warning")),
			Messages: len(p.Find("message")),
		}
		s.Errors += ps.Errors
		s.Warnings += ps.Warnings
		s.Messages += ps.Messages
		s.Projects = append(s.Projects, ps)
	}
	return s, nil
}

// ParseFile opens and parses the report at path.
func ParseFile(ctx context.Context, path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ccnet_err.ClassifyError(err, "open report")
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			otelzap.Ctx(ctx).Warn("Failed to close report", zap.String("path", path), zap.Error(closeErr))
		}
	}()
	return Parse(f)
}

func countAttr(el *xmltree.Element, name string) (int, error) {
	raw, ok := el.Attr(name)
	if !ok {
		return 0, ccnet_err.NewValidationError("report root is missing "+name, nil)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, ccnet_err.NewValidationError("report root has an invalid "+name,
			cerr.Newf("%s=%q", name, raw))
	}
	return n, nil
}

// Verify checks that the root counts equal the sum over projects.
func (s *Summary) Verify() error {
	if s.DeclaredErrors == s.Errors && s.DeclaredWarnings == s.Warnings {
		return nil
	}
	return ccnet_err.NewValidationError("report counts are inconsistent",
		cerr.Wrapf(ErrCountMismatch,
			"declared %d errors and %d warnings, projects hold %d and %d",
			s.DeclaredErrors, s.DeclaredWarnings, s.Errors, s.Warnings))
}

// WriteTable renders one row per project followed by a total row.
func (s *Summary) WriteTable(w io.Writer) error {
	t := output.NewTableTo(w).WithHeaders("PROJECT", "DIR", "ERRORS", "WARNINGS", "MESSAGES")
	for _, p := range s.Projects {
		t.AddRow(p.Name, p.Dir, strconv.Itoa(p.Errors), strconv.Itoa(p.Warnings), strconv.Itoa(p.Messages))
	}
	t.AddRow("TOTAL", "", strconv.Itoa(s.Errors), strconv.Itoa(s.Warnings), strconv.Itoa(s.Messages))
	return t.Render()
}

func (s *Summary) WriteJSON(w io.Writer) error {
	return output.JSONTo(w, s)
}
