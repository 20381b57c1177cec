package huffman

// NumSymbols is the size of the byte alphabet.
const NumSymbols = 256

// CountFrequencies tallies byte occurrences over data. An empty buffer
// yields an all-zero table; the caller decides whether that is an error.
func CountFrequencies(data []byte) [NumSymbols]int64 {
	var freqs [NumSymbols]int64
	for _, b := range data {
		freqs[b]++
	}
	return freqs
}
