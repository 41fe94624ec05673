// Copyright 2026 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import (
	"errors"
	"io"
)

// Errors reported by the decoder.
var (
	// ErrMarking indicates a non-zero first byte of the member body.
	ErrMarking = errors.New("lzma: marking data not allowed")
	// ErrUnexpectedEOF indicates that the compressed stream ended before
	// the end-of-stream marker.
	ErrUnexpectedEOF = errors.New("lzma: unexpected end of compressed stream")
	// ErrDecoder indicates corrupt compressed data, usually an
	// impossible match distance.
	ErrDecoder = errors.New("lzma: decoder error")
	// ErrUnknownMarker indicates a marker with a length code that is
	// neither end of stream nor sync flush.
	ErrUnknownMarker = errors.New("lzma: unknown marker code")
)

// Decoder decodes a single member body. It reads the range-coded stream
// from a byte reader and provides the uncompressed data through the
// io.Reader interface. The decoder stops after the end-of-stream marker;
// the member trailer is not consumed.
type Decoder struct {
	state state
	dict  *decoderDict
	rd    rangeDecoder
	eos   bool
	err   error
}

// NewDecoder creates a decoder for a member body. The dictSize must be the
// dictionary size declared in the member header. A non-zero first byte of
// the body is tolerated if ignoreMarking is set; otherwise ErrMarking is
// returned.
func NewDecoder(br io.ByteReader, dictSize int, ignoreMarking bool,
) (d *Decoder, err error) {
	d = new(Decoder)
	d.state.Reset()
	if d.dict, err = newDecoderDict(dictSize); err != nil {
		return nil, err
	}
	if err = d.rd.init(br, ignoreMarking); err != nil {
		if err == io.EOF {
			err = ErrUnexpectedEOF
		}
		return nil, err
	}
	return d, nil
}

// writeMatch checks the distance offset against the dictionary and writes
// the match.
func (d *Decoder) writeMatch(dist uint32, n int) error {
	if int64(dist) >= int64(d.dict.dictLen()) {
		return ErrDecoder
	}
	d.dict.writeMatch(int64(dist)+1, n)
	return nil
}

// decodeOp decodes a single operation of the member grammar and applies it
// to the dictionary. The eos field is set when the end-of-stream marker has
// been found.
func (d *Decoder) decodeOp() error {
	s := &d.state
	state, state2, posState := s.states(d.dict.pos())

	b, err := d.rd.decodeBit(&s.isMatch[state2])
	if err != nil {
		return err
	}
	if b == 0 {
		// literal
		prev := d.dict.byteAt(1)
		match := d.dict.byteAt(int64(s.rep[0]) + 1)
		c, err := s.litCodec.Decode(&d.rd, state, match, litState(prev))
		if err != nil {
			return err
		}
		d.dict.writeByte(c)
		s.updateStateLiteral()
		return nil
	}

	b, err = d.rd.decodeBit(&s.isRep[state])
	if err != nil {
		return err
	}
	if b == 0 {
		// plain match; the length is decoded before the distance
		n, err := s.lenCodec.Decode(&d.rd, posState)
		if err != nil {
			return err
		}
		dist, err := s.distCodec.Decode(&d.rd, n)
		if err != nil {
			return err
		}
		if dist == eosDist {
			// markers don't change the reps or the state
			switch n {
			case 0:
				d.eos = true
				return nil
			case 1:
				// sync flush; reseed the range decoder
				return d.rd.load(true)
			}
			return ErrUnknownMarker
		}
		s.rep[3], s.rep[2], s.rep[1], s.rep[0] =
			s.rep[2], s.rep[1], s.rep[0], dist
		s.updateStateMatch()
		return d.writeMatch(dist, int(n)+minMatchLen)
	}

	// repeated match
	b, err = d.rd.decodeBit(&s.isRepG0[state])
	if err != nil {
		return err
	}
	if b == 0 {
		b, err = d.rd.decodeBit(&s.isRepG0Long[state2])
		if err != nil {
			return err
		}
		if b == 0 {
			// short rep of length 1
			s.updateStateShortRep()
			d.dict.writeByte(d.dict.byteAt(int64(s.rep[0]) + 1))
			return nil
		}
	} else {
		var dist uint32
		b, err = d.rd.decodeBit(&s.isRepG1[state])
		if err != nil {
			return err
		}
		if b == 0 {
			dist = s.rep[1]
		} else {
			b, err = d.rd.decodeBit(&s.isRepG2[state])
			if err != nil {
				return err
			}
			if b == 0 {
				dist = s.rep[2]
			} else {
				dist = s.rep[3]
				s.rep[3] = s.rep[2]
			}
			s.rep[2] = s.rep[1]
		}
		s.rep[1] = s.rep[0]
		s.rep[0] = dist
	}
	s.updateStateRep()
	n, err := s.repLenCodec.Decode(&d.rd, posState)
	if err != nil {
		return err
	}
	return d.writeMatch(s.rep[0], int(n)+minMatchLen)
}

// fill decodes operations until the requested number of bytes is buffered,
// the end-of-stream marker has been found, or the dictionary can no longer
// guarantee space for a maximum-length match. The decoder doesn't read
// beyond the operation satisfying the demand, so data in front of a sync
// flush marker can be read before the rest of the stream is available.
func (d *Decoder) fill(need int) error {
	for !d.eos && d.dict.buffered() < need &&
		d.dict.available() >= maxMatchLen {
		if err := d.decodeOp(); err != nil {
			if err == io.EOF {
				err = ErrUnexpectedEOF
			}
			return err
		}
	}
	return nil
}

// Read reads uncompressed data from the decoder. The end of the member is
// indicated by io.EOF. The decoder will not recover from an error returned.
func (d *Decoder) Read(p []byte) (n int, err error) {
	if d.err != nil {
		return 0, d.err
	}
	for {
		k, _ := d.dict.Read(p[n:])
		n += k
		if n == len(p) {
			return n, nil
		}
		if d.eos && d.dict.buffered() == 0 {
			d.err = io.EOF
			return n, io.EOF
		}
		if err = d.fill(len(p) - n); err != nil {
			d.err = err
			return n, err
		}
	}
}

// Uncompressed returns the number of uncompressed bytes decoded so far.
func (d *Decoder) Uncompressed() int64 { return d.dict.pos() }

// Compressed returns the number of bytes of the member body consumed so
// far.
func (d *Decoder) Compressed() int64 { return d.rd.Pos() }

// CRC32 returns the CRC32 of the uncompressed data decoded so far.
func (d *Decoder) CRC32() uint32 { return d.dict.CRC32() }
