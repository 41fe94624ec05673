// Copyright 2026 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzma

import "io"

// rangeEncoder implements range encoding of single bits. The low value can
// overflow therefore we need uint64. The cache value is used to handle
// overflows.
type rangeEncoder struct {
	bw       io.ByteWriter
	nrange   uint32
	low      uint64
	cacheLen int64
	cache    byte
	n        int64
}

// init initializes the range encoder. The number of bytes written is only
// reset here, not by reset.
func (e *rangeEncoder) init(bw io.ByteWriter) {
	*e = rangeEncoder{bw: bw}
	e.reset()
}

// reset reinitializes the coding state but keeps the byte writer and the
// output count. It is used after a flush marker to reseed the stream.
func (e *rangeEncoder) reset() {
	e.nrange = 0xffffffff
	e.low = 0
	e.cache = 0
	e.cacheLen = 1
}

// Len returns the number of bytes written to the underlying writer.
func (e *rangeEncoder) Len() int64 {
	return e.n
}

// writeByte writes a single byte to the underlying writer counting it.
func (e *rangeEncoder) writeByte(c byte) error {
	if err := e.bw.WriteByte(c); err != nil {
		return err
	}
	e.n++
	return nil
}

// encodeDirectBit encodes the least-significant bit of b with probability
// 1/2.
func (e *rangeEncoder) encodeDirectBit(b uint32) error {
	e.nrange >>= 1
	e.low += uint64(e.nrange) & (0 - (uint64(b) & 1))
	return e.normalize()
}

// encodeBit encodes the least significant bit of b. The p value will be
// updated by the function depending on the bit encoded.
func (e *rangeEncoder) encodeBit(b uint32, p *prob) error {
	bound := p.bound(e.nrange)
	if b&1 == 0 {
		e.nrange = bound
		p.inc()
	} else {
		e.low += uint64(bound)
		e.nrange -= bound
		p.dec()
	}
	return e.normalize()
}

// Close writes a complete copy of the low value.
func (e *rangeEncoder) Close() error {
	for i := 0; i < 5; i++ {
		if err := e.shiftLow(); err != nil {
			return err
		}
	}
	return nil
}

// shiftLow shifts the low value for 8 bit. The shifted byte is written into
// the byte writer. The cache value is used to handle overflows.
func (e *rangeEncoder) shiftLow() error {
	if uint32(e.low) < 0xff000000 || (e.low>>32) != 0 {
		tmp := e.cache
		for {
			err := e.writeByte(tmp + byte(e.low>>32))
			if err != nil {
				return err
			}
			tmp = 0xff
			e.cacheLen--
			if e.cacheLen <= 0 {
				if e.cacheLen < 0 {
					panic("negative cacheLen")
				}
				break
			}
		}
		e.cache = byte(uint32(e.low) >> 24)
	}
	e.cacheLen++
	e.low = uint64(uint32(e.low) << 8)
	return nil
}

// normalize handles shifts of nrange and low.
func (e *rangeEncoder) normalize() error {
	const top = 1 << 24
	if e.nrange >= top {
		return nil
	}
	e.nrange <<= 8
	return e.shiftLow()
}

// rangeDecoder decodes single bits of the range encoding stream.
type rangeDecoder struct {
	br     io.ByteReader
	nrange uint32
	code   uint32
	n      int64
}

// init initializes the range decoder. It reads the five seed bytes from the
// stream and may return errors. A non-zero first byte is reported as
// ErrMarking unless ignoreMarking is set.
func (d *rangeDecoder) init(br io.ByteReader, ignoreMarking bool) error {
	*d = rangeDecoder{br: br}
	return d.load(ignoreMarking)
}

// load reads the five seed bytes and resets the coding state. It is called
// once at the start of the stream and again after each flush marker.
func (d *rangeDecoder) load(ignoreMarking bool) error {
	d.nrange = 0xffffffff
	d.code = 0

	b, err := d.readByte()
	if err != nil {
		return err
	}
	if b != 0 && !ignoreMarking {
		return ErrMarking
	}
	for i := 0; i < 4; i++ {
		if err = d.updateCode(); err != nil {
			return err
		}
	}
	return nil
}

// Pos returns the number of bytes consumed from the underlying byte reader.
func (d *rangeDecoder) Pos() int64 {
	return d.n
}

// readByte reads a byte from the underlying byte reader counting it.
func (d *rangeDecoder) readByte() (b byte, err error) {
	b, err = d.br.ReadByte()
	if err != nil {
		return 0, err
	}
	d.n++
	return b, nil
}

// decodeDirectBit decodes a bit with probability 1/2. The return value b
// will contain the bit at the least-significant position. All other bits
// will be zero.
func (d *rangeDecoder) decodeDirectBit() (b uint32, err error) {
	d.nrange >>= 1
	d.code -= d.nrange
	t := 0 - (d.code >> 31)
	d.code += d.nrange & t
	b = (t + 1) & 1

	// d.code will stay less than d.nrange

	// normalize
	const top = 1 << 24
	if d.nrange >= top {
		return b, nil
	}
	d.nrange <<= 8
	return b, d.updateCode()
}

// decodeBit decodes a single bit. The bit will be returned at the
// least-significant position. All other bits will be zero. The probability
// value will be updated.
func (d *rangeDecoder) decodeBit(p *prob) (b uint32, err error) {
	bound := p.bound(d.nrange)
	if d.code < bound {
		d.nrange = bound
		p.inc()
		b = 0
	} else {
		d.code -= bound
		d.nrange -= bound
		p.dec()
		b = 1
	}

	// d.code will stay less than d.nrange

	// normalize
	const top = 1 << 24
	if d.nrange >= top {
		return b, nil
	}
	d.nrange <<= 8
	return b, d.updateCode()
}

// updateCode reads a new byte into the code.
func (d *rangeDecoder) updateCode() error {
	b, err := d.readByte()
	if err != nil {
		return err
	}
	d.code = (d.code << 8) | uint32(b)
	return nil
}
