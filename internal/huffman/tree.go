package huffman

import "sort"

// BuildTree constructs the Huffman tree for the given frequency table.
//
// The construction order is part of the on-disk contract and must stay
// bit-reproducible:
//
//  1. one leaf per non-zero frequency, created in increasing byte-value order;
//  2. leaves sorted by ascending frequency with a stable sort, so equal
//     frequencies keep their byte-value order;
//  3. leaf_count-1 merge steps over two non-decreasing queues (the sorted
//     leaves and the branches in creation order), taking the two smallest
//     candidates and preferring the leaf queue when frequencies tie.
//
// Returns ErrNoLeaves when the table has no non-zero entries.
func BuildTree(freqs *[NumSymbols]int64) (*Tree, error) {
	leafCount := 0
	for _, f := range freqs {
		if f != 0 {
			leafCount++
		}
	}
	if leafCount == 0 {
		return nil, ErrNoLeaves
	}

	nodes := make([]Node, leafCount, 2*leafCount-1)
	i := 0
	for v := 0; v < NumSymbols; v++ {
		if freqs[v] != 0 {
			nodes[i] = Node{Kind: LeafNode, Value: byte(v), Frequency: freqs[v]}
			i++
		}
	}
	sort.SliceStable(nodes, func(a, b int) bool {
		return nodes[a].Frequency < nodes[b].Frequency
	})

	if leafCount == 1 {
		return &Tree{Nodes: nodes, Root: 0}, nil
	}

	// Branches are created with non-decreasing frequencies, so the slice
	// tail [leafCount:] forms the second sorted queue.
	nextLeaf := 0
	nextBranch := leafCount

	take := func() uint32 {
		if nextLeaf < leafCount &&
			(nextBranch == len(nodes) || nodes[nextLeaf].Frequency <= nodes[nextBranch].Frequency) {
			nextLeaf++
			return uint32(nextLeaf - 1)
		}
		nextBranch++
		return uint32(nextBranch - 1)
	}

	for step := 0; step < leafCount-1; step++ {
		left := take()
		right := take()
		nodes = append(nodes, Node{
			Kind:      BranchNode,
			Left:      left,
			Right:     right,
			Frequency: nodes[left].Frequency + nodes[right].Frequency,
		})
	}

	return &Tree{Nodes: nodes, Root: len(nodes) - 1}, nil
}
