package hierarchy

// Separator joins the labels of a full category path.
const Separator = " / "

// ResolvePaths walks the tree depth first and returns the full path of every
// id it meets. The first path written for an id is kept, so an id reachable
// through several parents is named after the first parent visited: roots in
// feed order, then within a branch its leaves before its nested branches.
// A branch met again through another parent is not walked twice: all of its
// descendants were named on the first visit.
func ResolvePaths(tree []*Branch, labels map[string]string) map[string]string {
	paths := make(map[string]string, len(labels))
	for _, root := range tree {
		resolveBranch(root, "", labels, paths)
	}
	return paths
}

func resolveBranch(branch *Branch, prefix string, labels map[string]string, paths map[string]string) {
	if _, seen := paths[branch.ID]; seen {
		return
	}
	prefix = joinPath(prefix, labels[branch.ID])
	paths[branch.ID] = prefix

	for _, child := range branch.Children {
		if leaf, ok := child.(*Leaf); ok {
			setOnce(paths, leaf.ID, joinPath(prefix, labels[leaf.ID]))
		}
	}

	for _, child := range branch.Children {
		if sub, ok := child.(*Branch); ok {
			resolveBranch(sub, prefix, labels, paths)
		}
	}
}

func setOnce(paths map[string]string, id, path string) {
	if _, exists := paths[id]; !exists {
		paths[id] = path
	}
}

// joinPath appends label to prefix. An empty label still adds the separator,
// so a nameless ancestor shows up as an empty segment.
func joinPath(prefix, label string) string {
	if prefix == "" {
		return label
	}
	return prefix + Separator + label
}
