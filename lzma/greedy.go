package lzma

import (
	"errors"
	"io"
)

// errNoMatch indicates that no match could be found.
var errNoMatch = errors.New("no match found")

// bestMatch selects the longest match under the offset candidates. Matches
// of length one are not worth encoding and are rejected.
func bestMatch(d *encoderDict, offsets []int64) (m match, err error) {
	off := int64(-1)
	length := 0
	for i := len(offsets) - 1; i >= 0; i-- {
		n := d.buf.equalBytes(d.head, offsets[i], maxMatchLen)
		if n >= length {
			off, length = offsets[i], n
		}
	}
	if off < 0 || length < minMatchLen {
		return match{}, errNoMatch
	}
	return match{distance: d.head - off, n: length}, nil
}

// potentialOffsets creates a list of offset candidates: the ten closest
// positions and the positions provided by the hash table for the four-byte
// sequence p.
func potentialOffsets(d *encoderDict, p []byte) []int64 {
	start := d.start()
	offs := make([]int64, 0, 32)
	// add potential offsets with highest priority at the top
	for i := 1; i < 11; i++ {
		// distance 1 to 10
		off := d.head - int64(i)
		if start <= off {
			offs = append(offs, off)
		}
	}
	if len(p) == 4 {
		// distances from the hash table
		offs = append(offs, d.t4.Offsets(p)...)
	}
	return offs
}

// errEmptyBuf indicates that no data is buffered in front of the head.
var errEmptyBuf = errors.New("empty buffer")

// findOp finds a single operation at the head of the dictionary.
func findOp(d *encoderDict) (op operation, err error) {
	p := make([]byte, 4)
	n, err := d.buf.ReadAt(p, d.head)
	if err != nil && err != io.EOF && err != errOffset {
		return nil, err
	}
	if n <= 0 {
		if n < 0 {
			panic("ReadAt returned negative n")
		}
		return nil, errEmptyBuf
	}
	offs := potentialOffsets(d, p[:n])
	m, err := bestMatch(d, offs)
	if err == errNoMatch {
		return lit{b: p[0]}, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}
