package hierarchy

import (
	"strconv"
	"testing"

	"ymlfeed/report/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func root(id, label string) domain.CategoryRecord {
	return domain.CategoryRecord{ID: id, Label: label}
}

func child(id, parent, label string) domain.CategoryRecord {
	return domain.CategoryRecord{ID: id, ParentID: parent, HasParent: true, Label: label}
}

func resolve(t *testing.T, records ...domain.CategoryRecord) map[string]string {
	t.Helper()
	adj := BuildAdjacency(records)
	tree, err := BuildTree(adj)
	require.NoError(t, err)
	return ResolvePaths(tree, adj.Labels())
}

func TestBuildAdjacency(t *testing.T) {
	adj := BuildAdjacency([]domain.CategoryRecord{
		root("1", "Shoes"),
		child("2", "1", "Boots"),
		child("3", "1", "Sandals"),
		child("4", "7", "Lost"),
	})

	t.Run("children keep feed order", func(t *testing.T) {
		children, ok := adj.Children("1")
		require.True(t, ok)
		assert.Equal(t, []string{"2", "3"}, children)
	})

	t.Run("root without children has an empty entry", func(t *testing.T) {
		adj := BuildAdjacency([]domain.CategoryRecord{root("9", "Alone")})
		children, ok := adj.Children("9")
		require.True(t, ok)
		assert.Empty(t, children)
	})

	t.Run("unknown parent becomes a key without label", func(t *testing.T) {
		_, ok := adj.Children("7")
		assert.True(t, ok)
		_, labelled := adj.Labels()["7"]
		assert.False(t, labelled)
	})

	t.Run("keys keep first-seen order", func(t *testing.T) {
		assert.Equal(t, []string{"1", "7"}, adj.Keys())
	})

	t.Run("labels cover every record", func(t *testing.T) {
		assert.Equal(t, map[string]string{"1": "Shoes", "2": "Boots", "3": "Sandals", "4": "Lost"}, adj.Labels())
	})

	t.Run("empty id passes through", func(t *testing.T) {
		adj := BuildAdjacency([]domain.CategoryRecord{root("", "Blank")})
		_, ok := adj.Children("")
		assert.True(t, ok)
		assert.Equal(t, "Blank", adj.Labels()[""])
	})
}

func TestRoots(t *testing.T) {
	adj := BuildAdjacency([]domain.CategoryRecord{
		child("3", "2", "C"),
		root("1", "A"),
		child("2", "1", "B"),
		root("5", "E"),
	})

	// "2" is a key (it has children) but also a child of "1".
	assert.Equal(t, []string{"1", "5"}, Roots(adj))
}

func TestRoots_SelfLoopIsNotRoot(t *testing.T) {
	adj := BuildAdjacency([]domain.CategoryRecord{child("1", "1", "Loop")})
	assert.Empty(t, Roots(adj))
}

func TestBuildTree(t *testing.T) {
	adj := BuildAdjacency([]domain.CategoryRecord{
		root("1", "Electronics"),
		child("2", "1", "Phones"),
		child("3", "2", "Cases"),
		child("4", "1", "Cables"),
	})

	tree, err := BuildTree(adj)
	require.NoError(t, err)
	require.Len(t, tree, 1)

	top := tree[0]
	assert.Equal(t, "1", top.ID)
	require.Len(t, top.Children, 2)

	phones, ok := top.Children[0].(*Branch)
	require.True(t, ok, "category with children must be a branch")
	assert.Equal(t, "2", phones.ID)
	assert.Equal(t, []Node{&Leaf{ID: "3"}}, phones.Children)

	assert.Equal(t, &Leaf{ID: "4"}, top.Children[1])
}

func TestBuildTree_MultiParentExpandedTwice(t *testing.T) {
	adj := BuildAdjacency([]domain.CategoryRecord{
		root("1", "A"),
		root("2", "B"),
		child("5", "1", "Shared"),
		child("6", "5", "Inner"),
		child("5", "2", "Shared"),
	})

	tree, err := BuildTree(adj)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	for _, top := range tree {
		require.Len(t, top.Children, 1)
		shared, ok := top.Children[0].(*Branch)
		require.True(t, ok)
		assert.Equal(t, "5", shared.ID)
		assert.Equal(t, []Node{&Leaf{ID: "6"}}, shared.Children)
	}
}

// diamondChain returns a root followed by levels of two categories, each a
// child of both categories of the previous level.
func diamondChain(levels int) []domain.CategoryRecord {
	records := []domain.CategoryRecord{root("r", "Root")}
	prev := []string{"r"}
	for i := 1; i <= levels; i++ {
		a, b := "a"+strconv.Itoa(i), "b"+strconv.Itoa(i)
		for _, p := range prev {
			records = append(records, child(a, p, "A"+strconv.Itoa(i)), child(b, p, "B"+strconv.Itoa(i)))
		}
		prev = []string{a, b}
	}
	return records
}

// countNodes counts distinct tree nodes, following shared branches once.
func countNodes(tree []*Branch) int {
	seen := map[Node]struct{}{}
	var walk func(n Node)
	walk = func(n Node) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		if b, ok := n.(*Branch); ok {
			for _, c := range b.Children {
				walk(c)
			}
		}
	}
	for _, root := range tree {
		walk(root)
	}
	return len(seen)
}

func TestBuildTree_SharedBranchIsBuiltOnce(t *testing.T) {
	adj := BuildAdjacency([]domain.CategoryRecord{
		root("1", "A"),
		root("2", "B"),
		child("5", "1", "Shared"),
		child("6", "5", "Inner"),
		child("5", "2", "Shared"),
	})

	tree, err := BuildTree(adj)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Same(t, tree[0].Children[0], tree[1].Children[0])
}

func TestBuildTree_DiamondChainStaysLinear(t *testing.T) {
	const levels = 60
	adj := BuildAdjacency(diamondChain(levels))

	tree, err := BuildTree(adj)
	require.NoError(t, err)
	require.Len(t, tree, 1)

	// One root and two shared branches per inner level. Leaves are not shared,
	// so both last-level ids appear once under each of the two last branches.
	assert.Equal(t, 1+2*(levels-1)+4, countNodes(tree))

	paths := ResolvePaths(tree, adj.Labels())
	assert.Len(t, paths, 1+2*levels)
	assert.Equal(t, "Root / A1 / A2 / A3", paths["a3"])
	assert.Equal(t, "Root / A1 / B2", paths["b2"])
}

func TestBuildTree_DeepChain(t *testing.T) {
	const depth = 10000
	records := []domain.CategoryRecord{root("0", "L0")}
	for i := 1; i <= depth; i++ {
		records = append(records, child(strconv.Itoa(i), strconv.Itoa(i-1), "L"+strconv.Itoa(i)))
	}
	// Closing the chain on its deepest ancestor is found after a full descent.
	records = append(records, child("1", strconv.Itoa(depth), "L1"))

	_, err := BuildTree(BuildAdjacency(records))
	var cyclic *domain.CyclicHierarchyError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, "1", cyclic.ID)
	assert.Len(t, cyclic.Chain, depth+1)

	tree, err := BuildTree(BuildAdjacency(records[:len(records)-1]))
	require.NoError(t, err)
	require.Len(t, tree, 1)
}

func TestBuildTree_Cycle(t *testing.T) {
	adj := BuildAdjacency([]domain.CategoryRecord{
		root("1", "Root"),
		child("2", "1", "A"),
		child("3", "2", "B"),
		child("2", "3", "A again"),
	})

	_, err := BuildTree(adj)
	require.Error(t, err)

	var cyclic *domain.CyclicHierarchyError
	require.ErrorAs(t, err, &cyclic)
	assert.Equal(t, "2", cyclic.ID)
	assert.Equal(t, []string{"1", "2", "3"}, cyclic.Chain)
}

func TestBuildTree_UnreachableCycleIsIgnored(t *testing.T) {
	adj := BuildAdjacency([]domain.CategoryRecord{
		root("1", "Root"),
		child("2", "3", "A"),
		child("3", "2", "B"),
	})

	tree, err := BuildTree(adj)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "1", tree[0].ID)
}

func TestResolvePaths(t *testing.T) {
	t.Run("path composition", func(t *testing.T) {
		paths := resolve(t,
			root("1", "Electronics"),
			child("2", "1", "Phones"),
			child("3", "2", "Cases"),
		)
		assert.Equal(t, "Electronics", paths["1"])
		assert.Equal(t, "Electronics / Phones", paths["2"])
		assert.Equal(t, "Electronics / Phones / Cases", paths["3"])
	})

	t.Run("empty label keeps an empty segment", func(t *testing.T) {
		paths := resolve(t,
			root("1", "Electronics"),
			child("2", "1", ""),
			child("3", "2", "Cases"),
		)
		assert.Equal(t, "Electronics / ", paths["2"])
		assert.Equal(t, "Electronics /  / Cases", paths["3"])
	})

	t.Run("empty root label", func(t *testing.T) {
		paths := resolve(t,
			root("1", ""),
			child("2", "1", "Phones"),
		)
		assert.Equal(t, "", paths["1"])
		assert.Equal(t, "Phones", paths["2"])
	})

	t.Run("prefix does not leak across siblings", func(t *testing.T) {
		paths := resolve(t,
			root("1", "Shoes"),
			child("2", "1", "Boots"),
			child("3", "2", "Winter"),
			root("4", "Hats"),
			child("5", "4", "Caps"),
		)
		assert.Equal(t, "Hats", paths["4"])
		assert.Equal(t, "Hats / Caps", paths["5"])
		assert.Equal(t, "Shoes / Boots / Winter", paths["3"])
	})

	t.Run("childless root", func(t *testing.T) {
		paths := resolve(t, root("1", "Alone"))
		assert.Equal(t, map[string]string{"1": "Alone"}, paths)
	})

	t.Run("unreachable ids are absent", func(t *testing.T) {
		paths := resolve(t,
			root("1", "Root"),
			child("2", "3", "A"),
			child("3", "2", "B"),
		)
		assert.NotContains(t, paths, "2")
		assert.NotContains(t, paths, "3")
	})

	t.Run("child of unknown parent", func(t *testing.T) {
		paths := resolve(t, child("4", "7", "Lost"))
		assert.Equal(t, "", paths["7"])
		assert.Equal(t, "Lost", paths["4"])
	})
}

func TestResolvePaths_MultiParentFirstWriteWins(t *testing.T) {
	t.Run("leaf shared by two roots", func(t *testing.T) {
		paths := resolve(t,
			root("1", "Men"),
			root("2", "Women"),
			child("5", "2", "Boots"),
			child("5", "1", "Boots"),
		)
		// Root "1" is visited first because it appears first in the feed.
		assert.Equal(t, "Men / Boots", paths["5"])
	})

	t.Run("leaf beats deeper branch of an earlier sibling", func(t *testing.T) {
		paths := resolve(t,
			root("1", "Top"),
			child("2", "1", "Deep"),
			child("5", "2", "Shared"),
			child("5", "1", "Shared"),
		)
		// Leaves of a level are named before nested branches are entered.
		assert.Equal(t, "Top / Shared", paths["5"])
	})

	t.Run("shared branch keeps first path for its subtree", func(t *testing.T) {
		paths := resolve(t,
			root("1", "A"),
			root("2", "B"),
			child("5", "1", "Shared"),
			child("6", "5", "Inner"),
			child("5", "2", "Shared"),
		)
		assert.Equal(t, "A / Shared", paths["5"])
		assert.Equal(t, "A / Shared / Inner", paths["6"])
	})
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "a", joinPath("", "a"))
	assert.Equal(t, "a / b", joinPath("a", "b"))
	assert.Equal(t, "a / ", joinPath("a", ""))
	assert.Equal(t, "", joinPath("", ""))
}
