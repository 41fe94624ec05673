// Copyright 2026 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"errors"
	"io"

	"github.com/ulikunitz/lz"
)

// bufferLen is the amount of data buffered in front of the dictionary head
// of the encoder.
const bufferLen = 64 << 10

// Encoder produces a member body: the range-coded stream between the member
// header and the member trailer. The byte stream is converted into blocks
// of LZ77 sequences by an lz.Sequencer; the encoder translates the
// sequences into the operation stream. Close terminates the body with the
// end-of-stream marker; Flush inserts a sync flush marker, which makes all
// data written so far decodable without ending the member.
type Encoder struct {
	state   state
	seq     lz.Sequencer
	blk     lz.Block
	re      rangeEncoder
	pos     int64
	winSize int64
	closed  bool
}

// NewEncoder creates an encoder for a member body using the given
// dictionary size.
func NewEncoder(bw io.ByteWriter, dictSize int) (e *Encoder, err error) {
	cfg := &GSConfig{WindowSize: dictSize}
	seq, err := cfg.NewSequencer()
	if err != nil {
		return nil, err
	}
	e = &Encoder{seq: seq, winSize: int64(dictSize)}
	e.state.Reset()
	e.re.init(bw)
	return e, nil
}

// errEncoderClosed indicates that the encoder has been closed before.
var errEncoderClosed = errors.New("lzma: encoder is closed")

// Write buffers the provided data and encodes as much of it as the buffer
// requires to make space.
func (e *Encoder) Write(p []byte) (n int, err error) {
	if e.closed {
		return 0, errEncoderClosed
	}
	for {
		k, err := e.seq.Write(p[n:])
		n += k
		if err != lz.ErrFullBuffer {
			return n, err
		}
		if err = e.compress(lz.NoTrailingLiterals); err != nil {
			return n, err
		}
	}
}

// byteAt returns the byte at the given distance from the current encoding
// position. The zero byte is returned for distances reaching in front of
// the data.
func (e *Encoder) byteAt(dist int64) byte {
	c, err := e.seq.ByteAt(e.pos - dist)
	if err != nil {
		return 0
	}
	return c
}

// writeLiteral writes a literal into the operation stream.
func (e *Encoder) writeLiteral(c byte) error {
	var err error
	state, state2, _ := e.state.states(e.pos)
	if err = e.re.encodeBit(0, &e.state.isMatch[state2]); err != nil {
		return err
	}
	prev := e.byteAt(1)
	match := e.byteAt(int64(e.state.rep[0]) + 1)
	err = e.state.litCodec.Encode(&e.re, c, state, match, litState(prev))
	if err != nil {
		return err
	}
	e.state.updateStateLiteral()
	e.pos++
	return nil
}

// iverson implements the Iverson operator as proposed by Donald Knuth in
// his book Concrete Mathematics.
func iverson(ok bool) uint32 {
	if ok {
		return 1
	}
	return 0
}

// writeMatch writes a match operation into the operation stream.
func (e *Encoder) writeMatch(distance int64, n int) error {
	var err error
	if !(minDistance <= distance && distance <= e.winSize) {
		return errors.New("lzma: match distance out of range")
	}
	dist := uint32(distance - minDistance)
	if !(minMatchLen <= n && n <= maxMatchLen) &&
		!(dist == e.state.rep[0] && n == 1) {
		return errors.New("lzma: match length out of range")
	}
	state, state2, posState := e.state.states(e.pos)
	if err = e.re.encodeBit(1, &e.state.isMatch[state2]); err != nil {
		return err
	}
	var g int
	for g = 0; g < 4; g++ {
		if e.state.rep[g] == dist {
			break
		}
	}
	b := iverson(g < 4)
	if err = e.re.encodeBit(b, &e.state.isRep[state]); err != nil {
		return err
	}
	l := uint32(n - minMatchLen)
	e.pos += int64(n)
	if b == 0 {
		// simple match
		e.state.rep[3], e.state.rep[2], e.state.rep[1], e.state.rep[0] =
			e.state.rep[2], e.state.rep[1], e.state.rep[0], dist
		e.state.updateStateMatch()
		if err = e.state.lenCodec.Encode(&e.re, l, posState); err != nil {
			return err
		}
		return e.state.distCodec.Encode(&e.re, dist, l)
	}
	b = iverson(g != 0)
	if err = e.re.encodeBit(b, &e.state.isRepG0[state]); err != nil {
		return err
	}
	if b == 0 {
		// g == 0
		b = iverson(n != 1)
		err = e.re.encodeBit(b, &e.state.isRepG0Long[state2])
		if err != nil {
			return err
		}
		if b == 0 {
			e.state.updateStateShortRep()
			return nil
		}
	} else {
		// g in {1,2,3}
		b = iverson(g != 1)
		if err = e.re.encodeBit(b, &e.state.isRepG1[state]); err != nil {
			return err
		}
		if b == 1 {
			// g in {2,3}
			b = iverson(g != 2)
			err = e.re.encodeBit(b, &e.state.isRepG2[state])
			if err != nil {
				return err
			}
			if b == 1 {
				e.state.rep[3] = e.state.rep[2]
			}
			e.state.rep[2] = e.state.rep[1]
		}
		e.state.rep[1] = e.state.rep[0]
		e.state.rep[0] = dist
	}
	e.state.updateStateRep()
	return e.state.repLenCodec.Encode(&e.re, l, posState)
}

// writeMarker writes a marker match with the given length code. Markers
// don't change the reps or the state, so the match is encoded directly.
func (e *Encoder) writeMarker(n uint32) error {
	state, state2, posState := e.state.states(e.pos)
	if err := e.re.encodeBit(1, &e.state.isMatch[state2]); err != nil {
		return err
	}
	if err := e.re.encodeBit(0, &e.state.isRep[state]); err != nil {
		return err
	}
	if err := e.state.lenCodec.Encode(&e.re, n, posState); err != nil {
		return err
	}
	return e.state.distCodec.Encode(&e.re, eosDist, n)
}

// writeBlock translates a block of sequences into the operation stream. The
// literals of a sequence precede its match; literals not consumed by any
// sequence trail the block.
func (e *Encoder) writeBlock(blk *lz.Block) error {
	litIndex := 0
	for _, s := range blk.Sequences {
		end := litIndex + int(s.LitLen)
		for _, c := range blk.Literals[litIndex:end] {
			if err := e.writeLiteral(c); err != nil {
				return err
			}
		}
		litIndex = end
		err := e.writeMatch(int64(s.Offset), int(s.MatchLen))
		if err != nil {
			return err
		}
	}
	for _, c := range blk.Literals[litIndex:] {
		if err := e.writeLiteral(c); err != nil {
			return err
		}
	}
	return nil
}

// compress encodes the buffered data block by block. The flags are handed
// to the sequencer; lz.NoTrailingLiterals keeps a lookahead unprocessed, so
// matches are not cut short at the buffer boundary.
func (e *Encoder) compress(flags int) error {
	for {
		_, err := e.seq.Sequence(&e.blk, flags)
		if err != nil {
			if err == lz.ErrEmptyBuffer {
				return nil
			}
			return err
		}
		if err = e.writeBlock(&e.blk); err != nil {
			return err
		}
	}
}

// Flush encodes all buffered data and writes a sync flush marker. The
// range coder is closed and reseeded, so everything written so far becomes
// decodable. The member continues after the marker.
func (e *Encoder) Flush() error {
	if e.closed {
		return errEncoderClosed
	}
	if err := e.compress(0); err != nil {
		return err
	}
	// length code 1 encodes the sync flush length 3
	if err := e.writeMarker(1); err != nil {
		return err
	}
	if err := e.re.Close(); err != nil {
		return err
	}
	e.re.reset()
	return nil
}

// Close encodes all buffered data, writes the end-of-stream marker and
// closes the range coder.
func (e *Encoder) Close() error {
	if e.closed {
		return errEncoderClosed
	}
	e.closed = true
	if err := e.compress(0); err != nil {
		return err
	}
	// length code 0 encodes the end-of-stream length 2
	if err := e.writeMarker(0); err != nil {
		return err
	}
	return e.re.Close()
}

// Uncompressed returns the number of bytes encoded so far.
func (e *Encoder) Uncompressed() int64 { return e.pos }

// Compressed returns the number of bytes written to the underlying writer.
func (e *Encoder) Compressed() int64 { return e.re.Len() }
