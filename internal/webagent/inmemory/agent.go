package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dvloznov/points-sync/internal/webagent"
)

// Agent is an in-memory implementation of webagent.Agent.
// Pages are registered by URL; navigating to an unknown URL fails the way a
// page-load timeout would.
type Agent struct {
	mu      sync.Mutex
	pages   map[string]*Node
	current *Node
	visited []string
	actions []string
	closed  bool
}

// NewAgent creates an agent with no pages.
func NewAgent() *Agent {
	return &Agent{pages: make(map[string]*Node)}
}

// AddPage registers the root node served for url.
func (a *Agent) AddPage(url string, root *Node) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pages[url] = root
}

// Visited returns every URL navigated to, in order.
func (a *Agent) Visited() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.visited...)
}

// Actions returns every element interaction, in order, e.g. "click #submit-button".
func (a *Agent) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.actions...)
}

// Close marks the session released.
func (a *Agent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

// Closed reports whether Close was called.
func (a *Agent) Closed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closed
}

func (a *Agent) record(format string, args ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.actions = append(a.actions, fmt.Sprintf(format, args...))
}

// Navigate implements webagent.Agent.
func (a *Agent) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.visited = append(a.visited, url)
	page, ok := a.pages[url]
	if !ok {
		return fmt.Errorf("Navigate %s: %w", url, webagent.ErrTimeout)
	}
	a.current = page
	return nil
}

func (a *Agent) page() (*Node, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return nil, fmt.Errorf("no page loaded")
	}
	return a.current, nil
}

// Find implements webagent.Agent.
func (a *Agent) Find(ctx context.Context, sel webagent.Selector) (webagent.Element, error) {
	root, err := a.page()
	if err != nil {
		return nil, err
	}
	return a.find(ctx, root, sel)
}

// FindAll implements webagent.Agent.
func (a *Agent) FindAll(ctx context.Context, sel webagent.Selector) ([]webagent.Element, error) {
	root, err := a.page()
	if err != nil {
		return nil, err
	}
	return a.findAll(ctx, root, sel)
}

func (a *Agent) find(ctx context.Context, root *Node, sel webagent.Selector) (webagent.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, n := range root.descendants() {
		if n.matches(sel) {
			return &element{agent: a, node: n, sel: sel}, nil
		}
	}
	return nil, webagent.NotFound(sel)
}

func (a *Agent) findAll(ctx context.Context, root *Node, sel webagent.Selector) ([]webagent.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []webagent.Element
	for _, n := range root.descendants() {
		if n.matches(sel) {
			out = append(out, &element{agent: a, node: n, sel: sel})
		}
	}
	return out, nil
}

var _ webagent.Session = (*Agent)(nil)
