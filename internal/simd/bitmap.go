package simd

import "math/bits"

// PopcountWords counts all set bits across words, used by graph.StagingGraph
// to compute a node's degree under the Bits adjacency encoding without
// materializing the neighbor list first.
func PopcountWords(words []uint64) int {
	count := 0
	// Process 4 words at a time (unrolled).
	i := 0
	for ; i+4 <= len(words); i += 4 {
		count += bits.OnesCount64(words[i])
		count += bits.OnesCount64(words[i+1])
		count += bits.OnesCount64(words[i+2])
		count += bits.OnesCount64(words[i+3])
	}
	for ; i < len(words); i++ {
		count += bits.OnesCount64(words[i])
	}
	return count
}
