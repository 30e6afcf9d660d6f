package viewport

import "math"

// FNV-1a constants, inlined to keep hashing allocation-free.
const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

// foldUint64 folds an unsigned 64-bit value into an FNV-1a hash.
func foldUint64(hash, v uint64) uint64 {
	for i := 0; i < 8; i++ {
		hash ^= v & 0xff
		hash *= fnvPrime
		v >>= 8
	}
	return hash
}

// foldFloat folds a float64 into the hash by its exact bit pattern, so two
// values hash equal iff they are bit-for-bit equal. The negative zero is
// normalized to positive zero to keep hashing consistent with ==.
func foldFloat(hash uint64, f float64) uint64 {
	if f == 0 {
		f = 0
	}
	return foldUint64(hash, math.Float64bits(f))
}

// foldInt folds an int into the hash.
func foldInt(hash uint64, i int) uint64 {
	return foldUint64(hash, uint64(i))
}

// foldBool folds a bool into the hash.
func foldBool(hash uint64, b bool) uint64 {
	if b {
		return foldUint64(hash, 1)
	}
	return foldUint64(hash, 0)
}
