// Package simd provides vectorization-friendly kernels for the neighbor
// and graph packages: a batched squared-distance predicate over 2D point
// coordinates, and a word-level popcount used by the bitset adjacency
// encoding.
//
// # Supported platforms
//
// CPU capability is detected at startup (golang.org/x/sys/cpu) on amd64 and
// arm64; ActiveISA reports what was detected, and SquaredDistBatch's
// dispatch is selected accordingly, unrolling in groups sized to the
// detected register width (4 for NEON, 8 for SVE2/AVX2, 16 for AVX-512, 1
// for the Generic fallback). There is no assembly kernel behind any
// variant — each does the same per-element arithmetic independently, so
// outputs are bitwise identical across ISAs and against Generic regardless
// of unroll width. GDBSCAN_SIMD overrides auto-detection with an explicit
// ISA name ("generic", "neon", "sve2", "avx2", "avx512").
package simd
