package hash

// A is the default constant for the Rabin-Karp rolling hash. This is a
// random prime.
const A = 252097800623

// RabinKarp supports the computation of a rolling hash.
type RabinKarp struct {
	A uint64
	// a^(n-1)
	aOldest uint64
	h       uint64
	p       []byte
	i       int
}

// NewRabinKarp creates a new RabinKarp value. The argument n defines the
// length of the byte window to be hashed. The default constant will be
// used.
func NewRabinKarp(n int) *RabinKarp {
	return NewRabinKarpConst(n, A)
}

// NewRabinKarpConst creates a new RabinKarp value. The argument n defines
// the length of the byte window to be hashed. The argument a provides the
// constant used to compute the hash.
func NewRabinKarpConst(n int, a uint64) *RabinKarp {
	if n <= 0 {
		panic("number of bytes n must be positive")
	}
	aOldest := uint64(1)
	// There are faster methods. For the small n required by the match
	// finder O(n) is sufficient.
	for i := 0; i < n-1; i++ {
		aOldest *= a
	}
	return &RabinKarp{A: a, aOldest: aOldest, p: make([]byte, 0, n)}
}

// Len returns the length of the byte window this hash supports.
func (r *RabinKarp) Len() int {
	return cap(r.p)
}

// RollByte appends the byte b to the window and returns the hash over the
// current window.
func (r *RabinKarp) RollByte(b byte) uint64 {
	if len(r.p) < cap(r.p) {
		r.h *= r.A
		r.h += uint64(b)
		r.p = append(r.p, b)
	} else {
		r.h -= uint64(r.p[r.i]) * r.aOldest
		r.h *= r.A
		r.h += uint64(b)
		r.p[r.i] = b
		r.i = (r.i + 1) % cap(r.p)
	}
	return r.h
}
