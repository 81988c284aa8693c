// pkg/aggregator/aggregator.go

// Package aggregator funnels build events from any number of goroutines into
// one Project per project file.
//
// Projects live in a sharded map. The shard is picked by hashing the project
// identity, so events for unrelated projects never wait on each other, and
// appends only lock the target project.
package aggregator

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/project"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/record"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/verbosity"
)

// DefaultShards is used when WithShards is not given.
const DefaultShards = 32

type shard struct {
	mu       sync.RWMutex
	projects map[string]*project.Project
}

// Aggregator owns every Project of a run. Create one per run with New.
type Aggregator struct {
	level  verbosity.Level
	log    *zap.Logger
	shards []*shard

	seq        atomic.Uint64
	dispatched atomic.Uint64
	admitted   atomic.Uint64
	dropped    atomic.Uint64
}

// Stats are running counters. Dispatched counts error, warning and message
// events, Admitted the records appended and Dropped the messages rejected by
// the verbosity level.
type Stats struct {
	Dispatched uint64 `json:"dispatched"`
	Admitted   uint64 `json:"admitted"`
	Dropped    uint64 `json:"dropped"`
	Projects   uint64 `json:"projects"`
}

type Option func(*Aggregator)

func WithLogger(log *zap.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}

// WithShards sets the shard count. Values below one are ignored.
func WithShards(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.shards = newShards(n)
		}
	}
}

func New(level verbosity.Level, opts ...Option) *Aggregator {
	a := &Aggregator{level: level, log: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	if a.shards == nil {
		a.shards = newShards(DefaultShards)
	}
	return a
}

func newShards(n int) []*shard {
	s := make([]*shard, n)
	for i := range s {
		s[i] = &shard{projects: make(map[string]*project.Project)}
	}
	return s
}

// Level is the verbosity messages are filtered at.
func (a *Aggregator) Level() verbosity.Level { return a.level }

// ProjectStarted makes sure a Project exists for projectFile and returns it.
func (a *Aggregator) ProjectStarted(projectFile string) *project.Project {
	return a.getOrCreate(identity(projectFile))
}

// Dispatch records ev against its project. Messages the verbosity level
// rejects are counted and dropped. A record that cannot be built leaves the
// project map untouched.
func (a *Aggregator) Dispatch(ev buildevent.Event) error {
	if ev == nil {
		return ccnet_err.InvalidArgument("event")
	}

	if ps, ok := ev.(*buildevent.ProjectStarted); ok {
		if ps == nil {
			return ccnet_err.InvalidArgument("project started event")
		}
		a.ProjectStarted(ps.ProjectFile)
		return nil
	}

	var (
		rec record.Record
		err error
	)
	switch e := ev.(type) {
	case *buildevent.Error:
		if e == nil {
			return ccnet_err.InvalidArgument("error event")
		}
		a.dispatched.Add(1)
		rec, err = record.NewError(e)
	case *buildevent.Warning:
		if e == nil {
			return ccnet_err.InvalidArgument("warning event")
		}
		a.dispatched.Add(1)
		rec, err = record.NewWarning(e)
	case *buildevent.Message:
		if e == nil {
			return ccnet_err.InvalidArgument("message event")
		}
		a.dispatched.Add(1)
		if !verbosity.Admits(a.level, e.Importance) {
			a.dropped.Add(1)
			return nil
		}
		rec, err = record.NewMessage(e)
	default:
		return cerr.AssertionFailedf("unhandled event type %T", ev)
	}
	if err != nil {
		return err
	}

	p := a.getOrCreate(identity(ev.Project()))
	if err := p.Add(rec); err != nil {
		return err
	}
	a.admitted.Add(1)
	return nil
}

// Projects returns every project in creation order.
func (a *Aggregator) Projects() []*project.Project {
	var out []*project.Project
	for _, s := range a.shards {
		s.mu.RLock()
		for _, p := range s.projects {
			out = append(out, p)
		}
		s.mu.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq() < out[j].Seq() })
	return out
}

func (a *Aggregator) Stats() Stats {
	return Stats{
		Dispatched: a.dispatched.Load(),
		Admitted:   a.admitted.Load(),
		Dropped:    a.dropped.Load(),
		Projects:   a.seq.Load(),
	}
}

func (a *Aggregator) getOrCreate(id string) *project.Project {
	s := a.shards[xxhash.Sum64String(id)%uint64(len(a.shards))]

	s.mu.RLock()
	p, ok := s.projects[id]
	s.mu.RUnlock()
	if ok {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.projects[id]; ok {
		return p
	}
	// seq is taken under the shard lock so a lost race never burns a number.
	p = project.New(id, a.seq.Add(1)-1)
	s.projects[id] = p
	a.log.Debug("Project created", zap.String("project", id), zap.Uint64("seq", p.Seq()))
	return p
}

// identity maps a missing project file onto the shared sentinel project.
func identity(projectFile string) string {
	if strings.TrimSpace(projectFile) == "" {
		return project.Unassociated
	}
	return projectFile
}
