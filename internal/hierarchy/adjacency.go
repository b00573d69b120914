// Package hierarchy turns flat category records into a tree and resolves the
// full path name of every category.
package hierarchy

import "ymlfeed/report/internal/domain"

// Adjacency maps every parent id to its direct children and every id to its label.
// It is built once per run and treated as read-only afterwards.
type Adjacency struct {
	children map[string][]string
	labels   map[string]string
	keys     []string            // insertion order of children keys
	childSet map[string]struct{} // every id that appears in some child list
}

// BuildAdjacency consumes the records in feed order.
func BuildAdjacency(records []domain.CategoryRecord) *Adjacency {
	adj := &Adjacency{
		children: make(map[string][]string),
		labels:   make(map[string]string, len(records)),
		childSet: make(map[string]struct{}),
	}

	for _, rec := range records {
		if rec.HasParent {
			adj.ensureKey(rec.ParentID)
			adj.children[rec.ParentID] = append(adj.children[rec.ParentID], rec.ID)
			adj.childSet[rec.ID] = struct{}{}
		} else {
			adj.ensureKey(rec.ID)
		}
		adj.labels[rec.ID] = rec.Label
	}

	return adj
}

func (a *Adjacency) ensureKey(id string) {
	if _, ok := a.children[id]; ok {
		return
	}
	a.children[id] = []string{}
	a.keys = append(a.keys, id)
}

// Keys returns the parent ids in the order they were first seen.
func (a *Adjacency) Keys() []string {
	return a.keys
}

// Children returns the direct children of id in feed order.
func (a *Adjacency) Children(id string) ([]string, bool) {
	children, ok := a.children[id]
	return children, ok
}

// IsChild reports whether id appears in any child list.
func (a *Adjacency) IsChild(id string) bool {
	_, ok := a.childSet[id]
	return ok
}

// Labels returns the id to label mapping.
func (a *Adjacency) Labels() map[string]string {
	return a.labels
}
