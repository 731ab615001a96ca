package ui

import (
	"slices"
	"sync"
)

// NodeKind tells a presenter how to draw a node.
type NodeKind string

const (
	KindCard    NodeKind = "card"
	KindRow     NodeKind = "row"
	KindTable   NodeKind = "table"
	KindMessage NodeKind = "message"
)

// ActionKind identifies a per-item affordance.
type ActionKind string

const (
	ActionUpdate  ActionKind = "update"
	ActionDelete  ActionKind = "delete"
	ActionBookNow ActionKind = "bookNow"
)

// Action is a button offered on a node.
type Action struct {
	Kind  ActionKind
	Label string
}

// Node is one display unit. Cards use Title and Lines, rows and tables use
// Cells and Header.
type Node struct {
	ID      string
	Kind    NodeKind
	Title   string
	Lines   []string
	Header  []string
	Cells   [][]string
	Actions []Action
}

// Equal reports whether two nodes render identically.
func (n Node) Equal(o Node) bool {
	if n.ID != o.ID || n.Kind != o.Kind || n.Title != o.Title {
		return false
	}
	if !slices.Equal(n.Lines, o.Lines) || !slices.Equal(n.Header, o.Header) || !slices.Equal(n.Actions, o.Actions) {
		return false
	}
	return slices.EqualFunc(n.Cells, o.Cells, slices.Equal[[]string])
}

// HasAction reports whether the node offers kind.
func (n Node) HasAction(kind ActionKind) bool {
	return slices.ContainsFunc(n.Actions, func(a Action) bool { return a.Kind == kind })
}

// Region is a designated display area. Every write replaces or prunes its
// content; nothing is merged.
type Region struct {
	mu    sync.RWMutex
	name  string
	nodes []Node
	onSet func([]Node)
}

// NewRegion creates an empty region.
func NewRegion(name string) *Region {
	return &Region{name: name}
}

// Name returns the region's name.
func (r *Region) Name() string { return r.name }

// OnChange registers fn to be called with the new content after every write.
func (r *Region) OnChange(fn func([]Node)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSet = fn
}

// Replace clears the region and shows nodes.
func (r *Region) Replace(nodes []Node) {
	r.mu.Lock()
	r.nodes = slices.Clone(nodes)
	fn, snapshot := r.onSet, slices.Clone(r.nodes)
	r.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}

// Message replaces the content with a single message node.
func (r *Region) Message(text string) {
	r.Replace([]Node{{ID: "message", Kind: KindMessage, Title: text}})
}

// Remove drops the node with id, leaving the others in place. It reports
// whether a node was removed.
func (r *Region) Remove(id string) bool {
	r.mu.Lock()
	idx := slices.IndexFunc(r.nodes, func(n Node) bool { return n.ID == id })
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	r.nodes = slices.Delete(r.nodes, idx, idx+1)
	fn, snapshot := r.onSet, slices.Clone(r.nodes)
	r.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
	return true
}

// Nodes returns a copy of the current content.
func (r *Region) Nodes() []Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.nodes)
}

// Find returns the node with id.
func (r *Region) Find(id string) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
