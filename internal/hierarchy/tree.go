package hierarchy

import (
	"slices"

	"ymlfeed/report/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Node is either a *Leaf or a *Branch.
type Node interface {
	NodeID() string
	isNode()
}

// Leaf is a category without a children entry.
type Leaf struct {
	ID string
}

// Branch is a category that has a children entry, possibly empty.
type Branch struct {
	ID       string
	Children []Node
}

func (l *Leaf) NodeID() string   { return l.ID }
func (b *Branch) NodeID() string { return b.ID }

func (*Leaf) isNode()   {}
func (*Branch) isNode() {}

// Roots returns the parent ids that never appear as anyone's child, in first-seen order.
func Roots(adj *Adjacency) []string {
	roots := make([]string, 0)
	for _, id := range adj.Keys() {
		if !adj.IsChild(id) {
			roots = append(roots, id)
		}
	}
	return roots
}

// BuildTree expands every root into a nested tree. An id listed under several
// parents appears under each of them; its *Branch is built once and shared, so
// diamond-shaped input stays linear in size. A cycle reachable from a root is
// reported as *domain.CyclicHierarchyError.
func BuildTree(adj *Adjacency) ([]*Branch, error) {
	roots := Roots(adj)
	tree := make([]*Branch, 0, len(roots))

	b := &treeBuilder{
		adj:       adj,
		built:     make(map[string]*Branch),
		ancestors: make(map[string]struct{}),
	}

	for _, id := range roots {
		branch, err := b.expand(id)
		if err != nil {
			return nil, err
		}
		tree = append(tree, branch)
	}

	log.Debugf("Built category tree with %d roots and %d branches out of %d parents", len(tree), len(b.built), len(adj.Keys()))
	return tree, nil
}

type treeBuilder struct {
	adj       *Adjacency
	built     map[string]*Branch  // finished branches by id
	ancestors map[string]struct{} // ids on the current expansion chain
	chain     []string            // same ids in order, for error reporting
}

func (b *treeBuilder) expand(id string) (*Branch, error) {
	if branch, ok := b.built[id]; ok {
		return branch, nil
	}
	if _, ok := b.ancestors[id]; ok {
		return nil, &domain.CyclicHierarchyError{ID: id, Chain: slices.Clone(b.chain)}
	}

	b.ancestors[id] = struct{}{}
	b.chain = append(b.chain, id)
	defer func() {
		delete(b.ancestors, id)
		b.chain = b.chain[:len(b.chain)-1]
	}()

	childIDs, _ := b.adj.Children(id)
	branch := &Branch{
		ID:       id,
		Children: make([]Node, 0, len(childIDs)),
	}

	for _, childID := range childIDs {
		if _, ok := b.adj.Children(childID); !ok {
			branch.Children = append(branch.Children, &Leaf{ID: childID})
			continue
		}

		sub, err := b.expand(childID)
		if err != nil {
			return nil, err
		}
		branch.Children = append(branch.Children, sub)
	}

	b.built[id] = branch
	return branch, nil
}
