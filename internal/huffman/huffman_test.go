package huffman

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFor(t *testing.T, data []byte) *Tree {
	t.Helper()
	freqs := CountFrequencies(data)
	tree, err := BuildTree(&freqs)
	require.NoError(t, err)
	return tree
}

func TestCountFrequencies(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want map[byte]int64
	}{
		{
			name: "empty input leaves all counts zero",
			data: nil,
			want: map[byte]int64{},
		},
		{
			name: "mixed bytes",
			data: []byte("AAAABB"),
			want: map[byte]int64{'A': 4, 'B': 2},
		},
		{
			name: "high byte values",
			data: []byte{0xff, 0xff, 0x00},
			want: map[byte]int64{0xff: 2, 0x00: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			freqs := CountFrequencies(tt.data)
			for v := 0; v < NumSymbols; v++ {
				assert.Equal(t, tt.want[byte(v)], freqs[v], "count for byte 0x%02x", v)
			}
		})
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	var freqs [NumSymbols]int64
	_, err := BuildTree(&freqs)
	require.ErrorIs(t, err, ErrNoLeaves)
}

func TestBuildTreeSingleLeaf(t *testing.T) {
	tree := buildFor(t, []byte("aaaa"))

	require.Len(t, tree.Nodes, 1)
	assert.Equal(t, 0, tree.Root)
	assert.Equal(t, LeafNode, tree.Nodes[0].Kind)
	assert.Equal(t, byte('a'), tree.Nodes[0].Value)
	assert.Equal(t, int64(4), tree.Nodes[0].Frequency)
}

func TestBuildTreeShape(t *testing.T) {
	tree := buildFor(t, []byte("AAAABB"))

	// Two leaves and one branch; the branch is the root.
	require.Len(t, tree.Nodes, 3)
	assert.Equal(t, 2, tree.Root)
	assert.Equal(t, BranchNode, tree.Nodes[2].Kind)
	assert.Equal(t, int64(6), tree.Nodes[2].Frequency)

	// The rarer B sorts first and becomes the left child.
	assert.Equal(t, byte('B'), tree.Nodes[tree.Nodes[2].Left].Value)
	assert.Equal(t, byte('A'), tree.Nodes[tree.Nodes[2].Right].Value)
}

func TestBuildTreeInvariants(t *testing.T) {
	data := make([]byte, 0, 4096)
	for i := 0; i < NumSymbols; i++ {
		for j := 0; j <= i%7; j++ {
			data = append(data, byte(i))
		}
	}
	tree := buildFor(t, data)

	leaves := 0
	for i, n := range tree.Nodes {
		switch n.Kind {
		case LeafNode:
			leaves++
		case BranchNode:
			require.Less(t, int(n.Left), i, "node %d left child", i)
			require.Less(t, int(n.Right), i, "node %d right child", i)
			assert.Equal(t, tree.Nodes[n.Left].Frequency+tree.Nodes[n.Right].Frequency, n.Frequency)
		}
	}
	assert.Equal(t, NumSymbols, leaves)
	assert.Equal(t, leaves, tree.LeafCount())
	assert.Len(t, tree.Nodes, 2*tree.LeafCount()-1)
	assert.Equal(t, len(tree.Nodes)-1, tree.Root)
}

func TestEncodeKnownBitstream(t *testing.T) {
	data := []byte("AAAABB")
	tree := buildFor(t, data)

	enc, err := Encode(data, tree)
	require.NoError(t, err)

	// A encodes to 1, B to 0: bits 111100 packed high-to-low give 0xF0.
	assert.Equal(t, uint64(6), enc.BitCount)
	require.Len(t, enc.Bits, 1)
	assert.Equal(t, byte(0xF0), enc.Bits[0])
}

func TestEncodeSingleLeaf(t *testing.T) {
	data := bytes.Repeat([]byte{'x'}, 11)
	tree := buildFor(t, data)

	enc, err := Encode(data, tree)
	require.NoError(t, err)

	// One 0 bit per input byte so the decoder can recover the length.
	assert.Equal(t, uint64(11), enc.BitCount)
	require.Len(t, enc.Bits, 2)
	assert.Equal(t, []byte{0, 0}, enc.Bits)

	got := Decode(enc, tree, uint64(len(data)))
	assert.Equal(t, data, got)
}

func TestEncodeDeterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	first := buildFor(t, data)
	second := buildFor(t, data)
	assert.Equal(t, first, second)

	encFirst, err := Encode(data, first)
	require.NoError(t, err)
	encSecond, err := Encode(data, second)
	require.NoError(t, err)
	assert.Equal(t, encFirst, encSecond)
}

func TestRoundTrip(t *testing.T) {
	allValues := make([]byte, NumSymbols)
	for i := range allValues {
		allValues[i] = byte(i)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"single byte", []byte{0x42}},
		{"two symbols", []byte("AAAABB")},
		{"all identical", bytes.Repeat([]byte{0x07}, 1000)},
		{"all 256 values", allValues},
		{"text", []byte("pack my box with five dozen liquor jugs")},
		{"binary with zeros", append(make([]byte, 64), []byte{1, 2, 3, 255}...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := buildFor(t, tt.data)
			enc, err := Encode(tt.data, tree)
			require.NoError(t, err)

			// Packed length matches the exact bit count, and compression
			// never produces fewer bits than input bytes.
			assert.Equal(t, (enc.BitCount+7)/8, uint64(len(enc.Bits)))
			assert.GreaterOrEqual(t, enc.BitCount, uint64(len(tt.data)))
			assert.LessOrEqual(t, enc.BitCount, uint64(8*len(tt.data)))

			got := Decode(enc, tree, uint64(len(tt.data)))
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestDecodeStopsAtOriginalSize(t *testing.T) {
	data := []byte("abcabcabc")
	tree := buildFor(t, data)
	enc, err := Encode(data, tree)
	require.NoError(t, err)

	// Inflate the declared bit count up to the padded byte boundary; the
	// decoder must still stop at originalSize bytes.
	padded := *enc
	padded.BitCount = uint64(len(enc.Bits)) * 8
	got := Decode(&padded, tree, uint64(len(data)))
	assert.Equal(t, data, got)
}

func TestTreeWireRoundTrip(t *testing.T) {
	tree := buildFor(t, []byte("mississippi river"))

	blob := MarshalTree(tree)
	require.Len(t, blob, len(tree.Nodes)*NodeRecordSize)

	got, err := UnmarshalTree(blob)
	require.NoError(t, err)
	assert.Equal(t, tree, got)
}

func TestUnmarshalTreeRejectsMalformed(t *testing.T) {
	tree := buildFor(t, []byte("AAAABB"))
	valid := MarshalTree(tree)

	forwardRef := append([]byte(nil), valid...)
	// Point the root branch's left child at itself.
	forwardRef[2*NodeRecordSize+2] = 2

	badKind := append([]byte(nil), valid...)
	badKind[0] = 9

	tests := []struct {
		name string
		blob []byte
	}{
		{"empty blob", nil},
		{"partial record", valid[:NodeRecordSize-1]},
		{"unknown node kind", badKind},
		{"child index not below parent", forwardRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalTree(tt.blob)
			require.ErrorIs(t, err, ErrMalformedTree)
		})
	}
}
