package hash

// A Roller maintains a rolling hash over a window of bytes.
//
// The method Len provides the length of the byte window for which the
// rolling hash will be computed.
//
// The method RollByte appends a byte to the window, removing the oldest
// byte once the window is full, and returns the hash over the current
// window. The hash covers a full window only after Len bytes have been
// rolled in.
type Roller interface {
	Len() int
	RollByte(b byte) uint64
}

// Hashes computes all hashes for the byte slice p using the rolling hash
// provided by r. The roller must be fresh; hash i covers p[i : i+r.Len()].
func Hashes(r Roller, p []byte) []uint64 {
	n := r.Len()
	if len(p) < n {
		return nil
	}
	h := make([]uint64, len(p)-n+1)
	for i, b := range p {
		v := r.RollByte(b)
		if i >= n-1 {
			h[i-n+1] = v
		}
	}
	return h
}
