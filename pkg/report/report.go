// pkg/report/report.go

// Package report assembles the msbuild document from a drained aggregator.
package report

import (
	"strconv"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/aggregator"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/xmltree"
)

// RootElement is the name of the document element.
const RootElement = "msbuild"

// Totals summarises an assembled report.
type Totals struct {
	Projects int `json:"projects"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Messages int `json:"messages"`
}

// Assemble renders every project of agg, in creation order, under a single
// msbuild root carrying warning_count and error_count. It only reads agg and
// must not run while events are still being dispatched.
func Assemble(agg *aggregator.Aggregator) (*xmltree.Document, Totals, error) {
	if agg == nil {
		return nil, Totals{}, ccnet_err.InvalidArgument("aggregator")
	}

	projects := agg.Projects()
	root := xmltree.New(RootElement)
	root.Children = make([]*xmltree.Element, 0, len(projects))

	var t Totals
	for _, p := range projects {
		t.Errors += p.ErrorCount()
		t.Warnings += p.WarningCount()
		t.Messages += p.MessageCount()
		root.Add(p.Fragment())
	}
	t.Projects = len(projects)

	root.SetAttr("warning_count", strconv.Itoa(t.Warnings))
	root.SetAttr("error_count", strconv.Itoa(t.Errors))

	return &xmltree.Document{Root: root}, t, nil
}
