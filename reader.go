// Copyright 2026 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzip

import (
	"bufio"
	"io"

	"github.com/ulikunitz/lzip/lzma"
)

// ReaderConfig defines the parameters for the multi-member reader. The zero
// value describes the default behavior: empty members, marking data and
// trailing data are tolerated.
type ReaderConfig struct {
	// EmptyError reports a member with zero data bytes as an error.
	EmptyError bool
	// MarkingError reports a non-zero first byte of a member body as an
	// error.
	MarkingError bool
	// TrailingError reports data after the last member as an error.
	TrailingError bool
	// LooseTrailing accepts trailing data that looks like a corrupt
	// member header.
	LooseTrailing bool
}

// Reader decompresses a stream of one or more concatenated members.
type Reader struct {
	cfg     ReaderConfig
	br      *bufio.Reader
	d       *lzma.Decoder
	h       header
	err     error
	members int
}

// NewReader creates a reader with the default configuration. The function
// reads and validates the first member header.
func NewReader(r io.Reader) (z *Reader, err error) {
	return ReaderConfig{}.NewReader(r)
}

// NewReader creates a reader for the given configuration. The function
// reads and validates the first member header.
func (cfg ReaderConfig) NewReader(r io.Reader) (z *Reader, err error) {
	z = &Reader{cfg: cfg, br: bufio.NewReader(r)}
	if err = z.startMember(true); err != nil {
		return nil, err
	}
	return z, nil
}

// startMember reads the header of the next member and initializes the
// member decoder. At the end of the input io.EOF is returned; trailing data
// is classified according to the configuration.
func (z *Reader) startMember(first bool) error {
	p := make([]byte, headerLen)
	n, err := io.ReadFull(z.br, p)
	if err != nil {
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			return err
		}
		if first {
			return ErrUnexpectedEOF
		}
		if n == 0 {
			return io.EOF
		}
		// a few bytes of trailing data
		return z.classifyTrailing(p[:n])
	}
	if err = z.h.UnmarshalBinary(p); err != nil {
		if first || err != ErrBadMagic {
			return err
		}
		return z.classifyTrailing(p)
	}
	z.d, err = lzma.NewDecoder(z.br, int(z.h.dictSize),
		!z.cfg.MarkingError)
	return err
}

// classifyTrailing decides how data after the last member is reported. The
// returned error is io.EOF if the trailing data is acceptable.
func (z *Reader) classifyTrailing(p []byte) error {
	if checkMagicPrefix(p) {
		return ErrTruncatedHeader
	}
	if !z.cfg.LooseTrailing && looksCorrupt(p) {
		return ErrCorruptHeader
	}
	if z.cfg.TrailingError {
		return ErrTrailingData
	}
	return io.EOF
}

// finishMember reads the member trailer and verifies it against the decoded
// data.
func (z *Reader) finishMember() error {
	p := make([]byte, trailerLen)
	n, err := io.ReadFull(z.br, p)
	if err != nil {
		if err != io.EOF && err != io.ErrUnexpectedEOF {
			return err
		}
		// zero padding keeps the checks below meaningful, but a
		// short trailer is an error in any case
		for i := n; i < trailerLen; i++ {
			p[i] = 0
		}
		err = ErrTrailerTruncated
	}
	var t trailer
	if uerr := t.UnmarshalBinary(p); uerr != nil {
		return uerr
	}
	if t.crc != z.d.CRC32() {
		return ErrCRC
	}
	if t.dataSize != uint64(z.d.Uncompressed()) {
		return ErrDataSize
	}
	memberSize := uint64(headerLen) + uint64(z.d.Compressed()) +
		trailerLen
	if t.memberSize != memberSize {
		return ErrMemberSize
	}
	if err != nil {
		return err
	}
	if z.cfg.EmptyError && t.dataSize == 0 {
		return ErrEmptyMember
	}
	z.members++
	return nil
}

// Read reads the decompressed data of all members. It returns io.EOF after
// the last member has been decoded and verified.
func (z *Reader) Read(p []byte) (n int, err error) {
	if z.err != nil {
		return 0, z.err
	}
	for n < len(p) {
		k, err := z.d.Read(p[n:])
		n += k
		if err == nil {
			continue
		}
		if err != io.EOF {
			z.err = err
			return n, err
		}
		// member body complete
		if err = z.finishMember(); err != nil {
			z.err = err
			return n, err
		}
		if err = z.startMember(false); err != nil {
			z.err = err
			if err == io.EOF && n > 0 {
				return n, nil
			}
			return n, err
		}
	}
	return n, nil
}

// Members returns the number of members decoded and verified so far.
func (z *Reader) Members() int { return z.members }
