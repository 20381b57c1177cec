package huffman

// Encoded is the packed bitstream for one payload. BitCount is exact;
// the final byte of Bits may carry up to seven zero padding bits.
type Encoded struct {
	Bits     []byte
	BitCount uint64
}

// Encode packs data into a bitstream using the tree's codes, most significant
// bit first. The output buffer is sized to the input length, which is a safe
// upper bound because every code is at most as long as the payload is rare,
// and is trimmed to ceil(BitCount/8) afterwards.
//
// A single-leaf tree produces zero-length codes, so the encoder emits one 0
// bit per input byte instead; the bit count then equals the input length and
// records the byte count for the decoder.
func Encode(data []byte, t *Tree) (*Encoded, error) {
	if len(data) == 0 {
		return &Encoded{}, nil
	}

	if t.Nodes[t.Root].Kind == LeafNode {
		n := uint64(len(data))
		return &Encoded{
			Bits:     make([]byte, (n+7)/8),
			BitCount: n,
		}, nil
	}

	buf := make([]byte, len(data))
	cache := &codeCache{}
	var total uint64
	for _, b := range data {
		path, err := cache.lookup(t, b)
		if err != nil {
			return nil, err
		}
		for _, bit := range path {
			if bit != 0 {
				buf[total/8] |= 1 << (7 - total%8)
			}
			total++
		}
	}

	return &Encoded{
		Bits:     buf[:(total+7)/8],
		BitCount: total,
	}, nil
}
