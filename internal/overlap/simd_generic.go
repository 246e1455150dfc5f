//go:build !amd64 || noasm

package overlap

// On platforms without the amd64 lane-4 kernel (or when built with the
// noasm tag), poleOverlapProxy keeps its package-level default: the portable
// scalar implementation. Mirrors Akron-fastpfor-go's `!amd64 || noasm`
// build-tag split (simdpack_noasm_test.go).
func init() {}
