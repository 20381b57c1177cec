package huffman

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// NodeRecordSize is the fixed on-disk size of one node record:
// kind:u8, value:u8, left:u32, right:u32, frequency:u64, little-endian.
const NodeRecordSize = 18

// ErrMalformedTree is returned when a serialized tree blob cannot be parsed
// back into a valid tree.
var ErrMalformedTree = errors.New("huffman: malformed tree blob")

// MarshalTree serializes the node slice into its wire form. The slice order
// is the wire order, so the blob fully determines the tree.
func MarshalTree(t *Tree) []byte {
	buf := make([]byte, len(t.Nodes)*NodeRecordSize)
	for i, n := range t.Nodes {
		rec := buf[i*NodeRecordSize:]
		rec[0] = byte(n.Kind)
		rec[1] = n.Value
		binary.LittleEndian.PutUint32(rec[2:], n.Left)
		binary.LittleEndian.PutUint32(rec[6:], n.Right)
		binary.LittleEndian.PutUint64(rec[10:], uint64(n.Frequency))
	}
	return buf
}

// UnmarshalTree parses a wire-format tree blob. The blob may be a view into a
// memory mapping; the returned tree does not alias it.
//
// Validation rules: the blob length must be a non-zero multiple of the record
// size, node kinds must be known, and every branch must reference children
// with indices strictly below its own. The last rule guarantees acyclicity,
// so decoding can trust child indices without further checks.
func UnmarshalTree(blob []byte) (*Tree, error) {
	if len(blob) == 0 || len(blob)%NodeRecordSize != 0 {
		return nil, fmt.Errorf("%w: blob length %d", ErrMalformedTree, len(blob))
	}
	count := len(blob) / NodeRecordSize

	nodes := make([]Node, count)
	for i := range nodes {
		rec := blob[i*NodeRecordSize:]
		kind := Kind(rec[0])
		switch kind {
		case LeafNode, BranchNode:
		default:
			return nil, fmt.Errorf("%w: node %d has kind %d", ErrMalformedTree, i, rec[0])
		}
		n := Node{
			Kind:      kind,
			Value:     rec[1],
			Left:      binary.LittleEndian.Uint32(rec[2:]),
			Right:     binary.LittleEndian.Uint32(rec[6:]),
			Frequency: int64(binary.LittleEndian.Uint64(rec[10:])),
		}
		if kind == BranchNode && (n.Left >= uint32(i) || n.Right >= uint32(i)) {
			return nil, fmt.Errorf("%w: node %d references children %d,%d", ErrMalformedTree, i, n.Left, n.Right)
		}
		nodes[i] = n
	}

	return &Tree{Nodes: nodes, Root: count - 1}, nil
}
