package huffman

// A code is the bit-path from the root to a leaf, one element per bit,
// 0 for a left descent and 1 for a right descent. The single-leaf tree
// yields a zero-length code.
type code []byte

// codeCache memoizes resolved bit-paths per byte value. It is local to one
// encoding invocation and discarded afterwards.
type codeCache struct {
	codes    [NumSymbols]code
	resolved [NumSymbols]bool
}

// lookup returns the cached code for value, resolving and caching it on the
// first request. Returns ErrSymbolNotFound if the tree has no leaf for value.
func (c *codeCache) lookup(t *Tree, value byte) (code, error) {
	if c.resolved[value] {
		return c.codes[value], nil
	}
	path, ok := resolve(t, t.Root, value, nil)
	if !ok {
		return nil, ErrSymbolNotFound
	}
	c.codes[value] = path
	c.resolved[value] = true
	return path, nil
}

// resolve walks the tree depth-first, appending one bit per descent. The
// prefix slice is reused across sibling probes; a successful probe returns
// the completed path.
func resolve(t *Tree, node int, value byte, prefix code) (code, bool) {
	n := &t.Nodes[node]
	if n.Kind == LeafNode {
		if n.Value == value {
			return prefix, true
		}
		return nil, false
	}
	if path, ok := resolve(t, int(n.Left), value, append(prefix, 0)); ok {
		return path, true
	}
	if path, ok := resolve(t, int(n.Right), value, append(prefix, 1)); ok {
		return path, true
	}
	return nil, false
}
