package huffzip

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"
	"math"

	"github.com/chronos-tachyon/assert"
)

// NoChild is the child handle of a leaf Node.
const NoChild = int32(-1)

// Node is one node of a Tree.  Leaves carry a Symbol and have no children;
// internal nodes have exactly two children and a frequency equal to the sum
// of theirs.
type Node struct {
	Symbol Symbol
	Freq   uint64
	Left   int32
	Right  int32
}

// IsLeaf returns true iff the node has no children.
func (n Node) IsLeaf() bool {
	return n.Left == NoChild
}

// Tree is a Huffman tree stored as an arena of nodes addressed by integer
// handles.  Handles 0 .. n-1 are the leaves, in ascending Symbol order;
// internal nodes follow in the order they were created.
type Tree struct {
	nodes []Node
	root  int32
}

// BuildTree builds a Huffman tree from ft by repeatedly merging the two
// lightest nodes.  Ties are broken by handle, so leaves come before internal
// nodes, leaves compare by Symbol, and older internal nodes come before
// newer ones.  The first node popped becomes the left child.
//
// If ft holds exactly one symbol, the tree is a single leaf.  If ft is
// empty, BuildTree returns ErrEmptyInput.
//
func BuildTree(ft FrequencyTable) (*Tree, error) {
	numLeaves := ft.Len()
	if numLeaves == 0 {
		return nil, ErrEmptyInput
	}

	nodes := make([]Node, 0, 2*numLeaves-1)
	for _, symbol := range ft.Symbols() {
		nodes = append(nodes, Node{Symbol: symbol, Freq: ft.Count(symbol), Left: NoChild, Right: NoChild})
	}

	h := nodeHeap{nodes: nodes, list: make([]int32, numLeaves, 2*numLeaves-1)}
	for index := range h.list {
		h.list[index] = int32(index)
	}
	h.Init()

	for h.Len() > 1 {
		a := heap.Pop(&h).(int32)
		b := heap.Pop(&h).(int32)

		// Compute freqSum using saturating addition
		freqSum := h.nodes[a].Freq + h.nodes[b].Freq
		if freqSum < h.nodes[a].Freq {
			freqSum = math.MaxUint64
		}

		parent := int32(len(h.nodes))
		h.nodes = append(h.nodes, Node{Freq: freqSum, Left: a, Right: b})
		heap.Push(&h, parent)
	}

	root := heap.Pop(&h).(int32)
	assert.Assertf(len(h.nodes) == 2*numLeaves-1, "tree has %d nodes, expected %d", len(h.nodes), 2*numLeaves-1)

	return &Tree{nodes: h.nodes, root: root}, nil
}

// Root returns the handle of the root node.
func (t *Tree) Root() int32 {
	return t.root
}

// Node returns the node with the given handle.
func (t *Tree) Node(handle int32) Node {
	return t.nodes[handle]
}

// Len returns the total number of nodes, leaves and internal.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Walk visits every leaf in depth-first order, left before right, passing
// the leaf and the Code accumulated along the way: "0" for each left edge
// and "1" for each right edge.  A tree that is a single leaf visits it with
// the empty Code.  Walk stops early if fn returns an error, and returns
// ErrCodeTooLong if any leaf is deeper than MaxCodeSize.
//
func (t *Tree) Walk(fn func(leaf Node, hc Code) error) error {
	// We use stackItem.x to keep track of where we are in the tree walk:
	//   x=0 → We just arrived at stackItem for the first time
	//   x=1 → We have already processed the left child
	//   x=2 → We have already processed both children

	type stackItem struct {
		handle int32
		hc     Code
		x      byte
	}

	if node := t.nodes[t.root]; node.IsLeaf() {
		return fn(node, Code{})
	}

	stack := make([]stackItem, 0, 16)
	stack = append(stack, stackItem{handle: t.root})

	processChild := func(child int32, hc Code) error {
		node := t.nodes[child]
		if node.IsLeaf() {
			return fn(node, hc)
		}
		if hc.Size >= MaxCodeSize {
			return fmt.Errorf("tree deeper than %d bits: %w", MaxCodeSize, ErrCodeTooLong)
		}
		stack = append(stack, stackItem{handle: child, hc: hc})
		return nil
	}

	for len(stack) != 0 {
		top := &stack[len(stack)-1]
		x := top.x
		top.x++
		node := t.nodes[top.handle]
		hc := top.hc

		var err error
		switch x {
		case 0:
			err = processChild(node.Left, hc.Append(false))
		case 1:
			err = processChild(node.Right, hc.Append(true))
		case 2:
			stack = stack[:len(stack)-1]
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Dump writes a programmer-readable debugging dump of the Tree to the given
// writer.
func (t *Tree) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	fmt.Fprintf(&buf, "\tRoot() = %d\n", t.root)
	for handle, node := range t.nodes {
		if node.IsLeaf() {
			fmt.Fprintf(&buf, "\tNode(%d) = leaf{%d, %d}\n", handle, node.Symbol, node.Freq)
		} else {
			fmt.Fprintf(&buf, "\tNode(%d) = {%d, %d, %d}\n", handle, node.Freq, node.Left, node.Right)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// type nodeHeap {{{

type nodeHeap struct {
	nodes []Node
	list  []int32
}

func (h *nodeHeap) Init() {
	heap.Init(h)
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	af, bf := h.nodes[a].Freq, h.nodes[b].Freq
	if af != bf {
		return af < bf
	}
	return a < b
}

func (h *nodeHeap) Push(x interface{}) {
	h.list = append(h.list, x.(int32))
}

func (h *nodeHeap) Pop() interface{} {
	last := uint(len(h.list)) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
