// pkg/replay/replay.go

// Package replay feeds recorded build events to subscribers the way the
// orchestrator does during a live build: each worker node raises its own
// events in order while nodes run side by side.
package replay

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
)

// Handler receives events. It is called from several goroutines at once.
type Handler interface {
	Handle(ev buildevent.Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev buildevent.Event) error

func (f HandlerFunc) Handle(ev buildevent.Event) error { return f(ev) }

// Source is anything a logger can subscribe to.
type Source interface {
	Subscribe(h Handler)
}

// Player replays a fixed list of events.
type Player struct {
	events  []buildevent.Event
	workers int

	mu       sync.Mutex
	handlers []Handler

	delivered atomic.Uint64
}

// NewPlayer returns a Player that runs at most workers nodes at a time.
// workers below one means one per node.
func NewPlayer(events []buildevent.Event, workers int) *Player {
	return &Player{events: events, workers: workers}
}

func (p *Player) Subscribe(h Handler) {
	if h == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Delivered is the number of events handed to all subscribers so far.
func (p *Player) Delivered() uint64 { return p.delivered.Load() }

// Run replays every event and returns once all of them have been handled,
// the context is cancelled, or a handler fails.
func (p *Player) Run(ctx context.Context) error {
	log := otelzap.Ctx(ctx)

	p.mu.Lock()
	handlers := append([]Handler(nil), p.handlers...)
	p.mu.Unlock()

	for i, ev := range p.events {
		if ev == nil {
			return cerr.Wrapf(ccnet_err.InvalidArgument("event"), "event %d", i)
		}
	}

	nodes := partition(p.events)
	if len(nodes) == 0 {
		return nil
	}

	limit := p.workers
	if limit <= 0 || limit > len(nodes) {
		limit = len(nodes)
	}
	log.Debug("Replaying events",
		zap.Int("events", len(p.events)),
		zap.Int("nodes", len(nodes)),
		zap.Int("workers", limit),
		zap.Int("subscribers", len(handlers)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, n := range nodes {
		g.Go(func() error {
			for _, ev := range n.events {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				for _, h := range handlers {
					if err := h.Handle(ev); err != nil {
						return cerr.Wrapf(err, "node %d: %s event", n.id, ev.Kind())
					}
				}
				p.delivered.Add(1)
			}
			return nil
		})
	}
	return g.Wait()
}

type node struct {
	id     int
	events []buildevent.Event
}

// partition groups events by node, keeping recorded order within a node.
func partition(events []buildevent.Event) []node {
	index := make(map[int]int)
	var nodes []node
	for _, ev := range events {
		i, ok := index[ev.Node()]
		if !ok {
			i = len(nodes)
			index[ev.Node()] = i
			nodes = append(nodes, node{id: ev.Node()})
		}
		nodes[i].events = append(nodes[i].events, ev)
	}
	sort.SliceStable(nodes, func(a, b int) bool { return nodes[a].id < nodes[b].id })
	return nodes
}
