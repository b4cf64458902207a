package trie

import "github.com/kiwi-go/kiwi/internal/dict"

// buildNode is a mutable map-based trie node used only during
// construction, mirroring other_examples/foden303-moderation's
// ahoCorasickNode (children map, failLink, isEndOfWord/output) — a shape
// well suited to incremental insertion but not to the cache-dense hot-path
// lookup the frozen Trie needs, hence the separate Freeze step.
type buildNode struct {
	children map[uint16]*buildNode
	fail     *buildNode
	form     dict.FormID
	hasForm  bool
	index    int32 // assigned during Freeze's BFS flattening
	depth    int32
}

func newBuildNode() *buildNode {
	return &buildNode{children: make(map[uint16]*buildNode)}
}

// Builder accumulates jamo-sequence -> FormID patterns, then Freeze
// compiles them into a queryable Trie.
type Builder struct {
	root *buildNode
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{root: newBuildNode()}
}

// Insert adds jamo as a pattern terminating at form. Patterns are expected
// to be inserted in ascending lexicographic order (the order
// internal/dict's form store is built in) but Insert does not require it;
// Freeze re-sorts children by key regardless.
func (b *Builder) Insert(jamo []uint16, form dict.FormID) {
	n := b.root
	for _, key := range jamo {
		child, ok := n.children[key]
		if !ok {
			child = newBuildNode()
			n.children[key] = child
		}
		n = child
	}
	n.hasForm = true
	n.form = form
}

// Freeze builds fail links via BFS, the standard Aho-Corasick
// construction, and then flattens the trie into the shared
// nodes[]/next_keys[]/next_diffs[] arrays, selecting the query variant
// once via selectNext.
func (b *Builder) Freeze() *Trie {
	b.buildFailLinks()

	// BFS again to assign a stable node index to every buildNode in
	// breadth-first order — this keeps sibling subtrees roughly
	// contiguous, which is what makes lowerDiff (a signed delta to an
	// ancestor's fail target) small enough to fit an int32 cheaply and
	// keeps the frozen arrays cache-friendly for the common case of a
	// shallow trie walk.
	order := []*buildNode{b.root}
	b.root.index = 0
	for i := 0; i < len(order); i++ {
		cur := order[i]
		for _, key := range sortedKeys(cur.children) {
			child := cur.children[key]
			child.index = int32(len(order))
			child.depth = cur.depth + 1
			order = append(order, child)
		}
	}

	t := &Trie{
		nodes: make([]node, len(order)),
	}
	for _, bn := range order {
		n := &t.nodes[bn.index]
		n.depth = bn.depth
		if bn.fail != nil {
			n.lowerDiff = bn.fail.index - bn.index
		}
		if bn.hasForm {
			n.payload = PayloadForm
			n.form = bn.form
		} else if hasDescendantMatch(bn) {
			n.payload = PayloadHasSubmatch
		}

		keys := sortedKeys(bn.children)
		n.numNexts = int32(len(keys))
		n.nextOffset = int32(len(t.nextKeys))
		for _, key := range keys {
			t.nextKeys = append(t.nextKeys, key)
			t.nextDiffs = append(t.nextDiffs, bn.children[key].index-bn.index)
		}
	}

	t.next = selectNext()
	return t
}

func (b *Builder) buildFailLinks() {
	var queue []*buildNode
	for _, child := range b.root.children {
		child.fail = b.root
		queue = append(queue, child)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for key, child := range cur.children {
			queue = append(queue, child)

			failNode := cur.fail
			for failNode != nil {
				if next, ok := failNode.children[key]; ok {
					child.fail = next
					break
				}
				failNode = failNode.fail
			}
			if child.fail == nil {
				child.fail = b.root
			}
		}
	}
}

func hasDescendantMatch(n *buildNode) bool {
	for _, child := range n.children {
		if child.hasForm || hasDescendantMatch(child) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[uint16]*buildNode) []uint16 {
	keys := make([]uint16, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// insertion sort: child fan-out per node is small (bounded by the
	// jamo alphabet, under 200 symbols) so this beats sort.Slice's
	// overhead in practice and keeps Freeze allocation-free past the
	// keys slice itself.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
