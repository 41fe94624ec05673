// Copyright 2026 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzip

import (
	"errors"
	"fmt"
	"io"
)

// Block describes a contiguous byte range of a file. Pos and Size are
// nonnegative and Pos+Size never exceeds 2^63-1.
type Block struct {
	Pos  int64
	Size int64
}

// End returns the offset directly after the block.
func (b Block) End() int64 { return b.Pos + b.Size }

// Member describes one member of an indexed file.
type Member struct {
	// DataBlock is the range the member occupies in the uncompressed
	// data.
	DataBlock Block
	// MemberBlock is the range the member occupies in the compressed
	// file, including header and trailer.
	MemberBlock Block
	// DictSize is the dictionary size declared in the member header.
	DictSize uint32
}

// IndexConfig defines the parameters for the index builder. The zero value
// tolerates trailing data.
type IndexConfig struct {
	// TrailingError reports data after the last member as an error.
	TrailingError bool
	// LooseTrailing accepts trailing data that looks like a corrupt
	// member header.
	LooseTrailing bool
}

// Index maps the uncompressed data offsets of a multi-member file to the
// member locations. The members appear in file order.
type Index struct {
	Members []Member
	// InSize is the size of the input file including trailing data.
	InSize int64
}

// NewIndex builds the index of a seekable file with the default
// configuration.
func NewIndex(r io.ReaderAt, insize int64) (ix *Index, err error) {
	return IndexConfig{}.NewIndex(r, insize)
}

// readAt reads exactly len(p) bytes at offset pos.
func readAt(r io.ReaderAt, p []byte, pos int64) error {
	_, err := r.ReadAt(p, pos)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// NewIndex builds the index of a seekable file. The file is scanned
// backwards from the tail; apart from the block-wise scan of trailing data
// in skipTrailingData, only headers and trailers are read.
func (cfg IndexConfig) NewIndex(r io.ReaderAt, insize int64) (ix *Index, err error) {
	if insize < 0 {
		return nil, errors.New("lzip: negative input size")
	}
	if insize < minMemberLen {
		return nil, ErrTooShort
	}

	// header sanity check at the file start
	p := make([]byte, headerLen)
	if err = readAt(r, p, 0); err != nil {
		return nil, err
	}
	var h header
	if err = h.UnmarshalBinary(p); err != nil {
		return nil, err
	}

	ix = &Index{InSize: insize}
	tp := make([]byte, trailerLen)
	pos := insize // always points to a header or to the end of the file
	for pos >= minMemberLen {
		if err = readAt(r, tp, pos-trailerLen); err != nil {
			return nil, err
		}
		var t trailer
		if err = t.UnmarshalBinary(tp); err != nil {
			return nil, err
		}
		if t.memberSize > uint64(pos) || !t.consistent() {
			if len(ix.Members) == 0 {
				var m Member
				pos, m, err = cfg.skipTrailingData(r, pos)
				if err != nil {
					return nil, err
				}
				ix.Members = append(ix.Members, m)
				continue
			}
			return nil, fmt.Errorf("lzip: bad trailer at pos %d",
				pos-trailerLen)
		}
		memberSize := int64(t.memberSize)
		if err = readAt(r, p, pos-memberSize); err != nil {
			return nil, err
		}
		if err = h.UnmarshalBinary(p); err != nil {
			if len(ix.Members) == 0 {
				var m Member
				pos, m, err = cfg.skipTrailingData(r, pos)
				if err != nil {
					return nil, err
				}
				ix.Members = append(ix.Members, m)
				continue
			}
			return nil, fmt.Errorf("lzip: bad header at pos %d",
				pos-memberSize)
		}
		pos -= memberSize
		ix.Members = append(ix.Members, Member{
			DataBlock:   Block{Size: int64(t.dataSize)},
			MemberBlock: Block{Pos: pos, Size: memberSize},
			DictSize:    h.dictSize,
		})
	}
	if pos != 0 || len(ix.Members) == 0 {
		return nil, errors.New("lzip: can't create file index")
	}

	// the members have been collected from the tail to the head
	m := ix.Members
	for i, j := 0, len(m)-1; i < j; i, j = i+1, j-1 {
		m[i], m[j] = m[j], m[i]
	}

	// accumulate the uncompressed data offsets
	for i := range m {
		if m[i].DataBlock.Size < 0 || m[i].DataBlock.End() < 0 {
			return nil, errors.New(
				"lzip: data in input file is too long")
		}
		if i+1 >= len(m) {
			break
		}
		m[i+1].DataBlock.Pos = m[i].DataBlock.End()
	}
	return ix, nil
}

// skipTrailingData scans backwards from pos for the last member of the
// file. It returns the position of the member header and the member found.
// Candidate trailers are fast-filtered by the most significant byte of the
// stored member size: a member ending at file offset e has member size at
// most e, so the byte cannot exceed e >> 56. The heuristic relies on the
// input size being below 2^63.
func (cfg IndexConfig) skipTrailingData(r io.ReaderAt, pos int64,
) (newPos int64, m Member, err error) {
	const blockSize = 16384
	const bufferSize = blockSize + trailerLen - 1 + headerLen
	badTrailer := fmt.Errorf("lzip: bad trailer at pos %d",
		pos-trailerLen)
	if pos < minMemberLen {
		return 0, m, badTrailer
	}
	buffer := make([]byte, bufferSize)
	bsize := int(pos % blockSize) // total bytes in buffer
	if bsize <= bufferSize-blockSize {
		bsize += blockSize
	}
	searchSize := bsize // bytes to search for the trailer
	rdSize := bsize     // bytes to read from the file
	ipos := pos - int64(rdSize)

	hp := make([]byte, headerLen)
	for {
		if err = readAt(r, buffer[:rdSize], ipos); err != nil {
			return 0, m, err
		}
		maxMSB := byte(uint64(ipos+int64(searchSize)) >> 56)
		for i := searchSize; i >= trailerLen; i-- {
			// most significant byte of the member size
			if buffer[i-1] > maxMSB {
				continue
			}
			var t trailer
			if err = t.UnmarshalBinary(buffer[i-trailerLen : i]); err != nil {
				return 0, m, err
			}
			if t.memberSize == 0 { // skip trailing zeros
				for i > trailerLen && buffer[i-9] == 0 {
					i--
				}
				continue
			}
			if t.memberSize > uint64(ipos)+uint64(i) ||
				!t.consistent() {
				continue
			}
			var h header
			hpos := ipos + int64(i) - int64(t.memberSize)
			if err = readAt(r, hp, hpos); err != nil {
				return 0, m, err
			}
			if h.UnmarshalBinary(hp) != nil {
				continue
			}
			// classify the bytes after the candidate member
			q := buffer[i:bsize]
			if checkMagicPrefix(q) {
				return 0, m, ErrLastMember
			}
			if !cfg.LooseTrailing && looksCorrupt(q) {
				return 0, m, ErrCorruptHeader
			}
			if cfg.TrailingError {
				return 0, m, ErrTrailingData
			}
			m = Member{
				DataBlock: Block{Size: int64(t.dataSize)},
				MemberBlock: Block{
					Pos:  hpos,
					Size: int64(t.memberSize),
				},
				DictSize: h.dictSize,
			}
			return hpos, m, nil
		}
		if ipos <= 0 {
			return 0, m, badTrailer
		}
		bsize = bufferSize
		searchSize = bsize - headerLen
		rdSize = blockSize
		ipos -= int64(rdSize)
		copy(buffer[rdSize:], buffer[:bufferSize-rdSize])
	}
}

// UncompressedSize returns the size of the uncompressed data of all
// members.
func (ix *Index) UncompressedSize() int64 {
	if len(ix.Members) == 0 {
		return 0
	}
	return ix.Members[len(ix.Members)-1].DataBlock.End()
}

// CompressedSize returns the end of the last member. Trailing data is not
// included.
func (ix *Index) CompressedSize() int64 {
	if len(ix.Members) == 0 {
		return 0
	}
	return ix.Members[len(ix.Members)-1].MemberBlock.End()
}

// TrailingSize returns the number of trailing data bytes of the file.
func (ix *Index) TrailingSize() int64 {
	return ix.InSize - ix.CompressedSize()
}

// DictSize returns the largest dictionary size of the file's members.
func (ix *Index) DictSize() uint32 {
	var size uint32
	for _, m := range ix.Members {
		if m.DictSize > size {
			size = m.DictSize
		}
	}
	return size
}
