// pkg/sink/sink.go

// Package sink delivers an assembled report to where it is read from.
package sink

import (
	"context"
	"io"
	"os"
	"path/filepath"

	cerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/go-multierror"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/xmltree"
)

// Indent is the indentation used for every written report.
const Indent = "  "

// Sink receives the finished document exactly once per run.
type Sink interface {
	Write(ctx context.Context, doc *xmltree.Document) error
}

// File writes the report to Path, replacing any previous report atomically.
type File struct {
	Path string
	Perm os.FileMode
}

func NewFile(path string) *File {
	return &File{Path: path, Perm: 0o644}
}

func (f *File) Write(ctx context.Context, doc *xmltree.Document) (err error) {
	log := otelzap.Ctx(ctx)

	data, err := doc.Bytes()
	if err != nil {
		return ccnet_err.NewInternalError("report could not be encoded", err)
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ccnet_err.ClassifyError(err, "create report directory "+dir)
	}

	tmp, err := os.CreateTemp(dir, ".ccnetlog-*.xml")
	if err != nil {
		return ccnet_err.ClassifyError(err, "create temporary report in "+dir)
	}
	defer func() {
		if err != nil {
			if rmErr := os.Remove(tmp.Name()); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Warn("Failed to remove temporary report", zap.String("path", tmp.Name()), zap.Error(rmErr))
			}
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return ccnet_err.ClassifyError(err, "write report")
	}
	if err = tmp.Chmod(f.perm()); err != nil {
		_ = tmp.Close()
		return ccnet_err.ClassifyError(err, "set report permissions")
	}
	if err = tmp.Close(); err != nil {
		return ccnet_err.ClassifyError(err, "write report")
	}
	if err = os.Rename(tmp.Name(), f.Path); err != nil {
		return ccnet_err.ClassifyError(err, "replace report "+f.Path)
	}

	log.Info("Report written", zap.String("path", f.Path), zap.Int("bytes", len(data)))
	return nil
}

func (f *File) perm() os.FileMode {
	if f.Perm == 0 {
		return 0o644
	}
	return f.Perm
}

// Writer encodes the report to an arbitrary writer such as stdout.
type Writer struct {
	W io.Writer
}

func (w Writer) Write(_ context.Context, doc *xmltree.Document) error {
	if w.W == nil {
		return ccnet_err.InvalidArgument("writer")
	}
	if err := doc.Encode(w.W, Indent); err != nil {
		return cerr.Wrap(err, "encode report")
	}
	_, err := io.WriteString(w.W, "\n")
	return cerr.Wrap(err, "encode report")
}

// Multi hands the report to every sink, even after one of them fails.
type Multi []Sink

func (m Multi) Write(ctx context.Context, doc *xmltree.Document) error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.Write(ctx, doc); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
