// Package huffman implements the compression engine: byte-frequency counting,
// prefix-code tree construction, code resolution, and the packed bitstream
// encoder/decoder.
//
// The tree is held in a single append-only slice of nodes. A node is
// identified by its index in that slice, and every branch references children
// whose indices are strictly smaller than its own, so the slice order is a
// valid construction order and the root is always the final element.
package huffman

import "errors"

// Error definitions for the huffman package
var (
	// ErrNoLeaves is returned when tree construction is attempted with no
	// non-zero frequencies. Callers must treat an empty payload as a
	// separate condition before building a tree.
	ErrNoLeaves = errors.New("huffman: no symbols to build a tree from")

	// ErrSymbolNotFound is returned when a byte value has no leaf in the
	// tree. The tree is built from the payload's own frequencies, so this
	// indicates an internal-consistency fault, not a user error.
	ErrSymbolNotFound = errors.New("huffman: symbol not present in tree")
)

// Kind distinguishes leaf nodes from branch nodes.
type Kind uint8

const (
	// LeafNode stores a byte value and its frequency.
	LeafNode Kind = iota
	// BranchNode stores the indices of its two children.
	BranchNode
)

// Node is one element of the tree slice. For leaves, Value holds the byte
// value; for branches, Left and Right hold child indices. Frequency is the
// occurrence count for leaves and the sum of the children for branches.
type Node struct {
	Kind      Kind
	Value     byte
	Left      uint32
	Right     uint32
	Frequency int64
}

// Tree is an array-based Huffman tree. Root is the index of the root node,
// which is the last slice element except in the single-leaf case.
type Tree struct {
	Nodes []Node
	Root  int
}

// LeafCount returns the number of leaf nodes in the tree.
func (t *Tree) LeafCount() int {
	return (len(t.Nodes) + 1) / 2
}
