package huffman

// Decode walks the tree one bit at a time (0 left, 1 right), emitting a leaf's
// byte value and restarting at the root whenever a leaf is reached. It stops
// once originalSize bytes have been produced, even if bits remain, and never
// reads past bitCount bits. With a single-leaf tree every bit stands for the
// leaf's value regardless of what it is.
//
// Malformed input is rejected by the container parser before decoding starts,
// so Decode itself has no failure path.
func Decode(enc *Encoded, t *Tree, originalSize uint64) []byte {
	out := make([]byte, 0, originalSize)
	rootIsLeaf := t.Nodes[t.Root].Kind == LeafNode
	current := t.Root

	for i := uint64(0); i < enc.BitCount; i++ {
		if uint64(len(out)) >= originalSize {
			break
		}

		if rootIsLeaf {
			out = append(out, t.Nodes[t.Root].Value)
			continue
		}

		if enc.Bits[i/8]&(1<<(7-i%8)) != 0 {
			current = int(t.Nodes[current].Right)
		} else {
			current = int(t.Nodes[current].Left)
		}
		if t.Nodes[current].Kind == LeafNode {
			out = append(out, t.Nodes[current].Value)
			current = t.Root
		}
	}
	return out
}
