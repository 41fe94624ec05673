package lzip

import (
	"encoding/binary"
	"errors"
	"math/bits"
)

// Sizes of the structural elements of a member.
const (
	headerLen  = 6
	trailerLen = 20
	// smallest possible member: header, body of an empty member,
	// trailer
	minMemberLen = 36
)

// lzipMagic are the first four bytes of a member header.
var lzipMagic = []byte("LZIP")

// header represents the decoded 6-byte member header.
type header struct {
	version  byte
	dictSize uint32
}

// validDictSize reports whether the dictionary size is inside the limits of
// the format.
func validDictSize(size uint32) bool {
	return MinDictSize <= size && size <= MaxDictSize
}

// decodeDictSize converts the coded dictionary size of the header into the
// actual size. The low five bits provide a power of two; the high three
// bits subtract fractions of a sixteenth of it.
func decodeDictSize(c byte) uint32 {
	size := uint32(1) << (c & 0x1f)
	if size > MinDictSize {
		size -= (size / 16) * uint32((c>>5)&7)
	}
	return size
}

// encodeDictSize computes the coded representation of the dictionary size.
// The encoding is not exact for all values; the decoded size is the
// smallest representable size that is not smaller than the argument.
func encodeDictSize(size uint32) (c byte, err error) {
	if !validDictSize(size) {
		return 0, ErrDictSize
	}
	c = byte(bits.Len32(size - 1))
	if size > MinDictSize {
		base := uint32(1) << c
		fraction := base / 16
		for i := byte(7); i >= 1; i-- {
			if base-uint32(i)*fraction >= size {
				c |= i << 5
				break
			}
		}
	}
	return c, nil
}

// UnmarshalBinary decodes and validates the 6-byte member header.
func (h *header) UnmarshalBinary(data []byte) error {
	if len(data) != headerLen {
		return errors.New("lzip: header has incorrect length")
	}
	if !checkMagic(data) {
		return ErrBadMagic
	}
	if data[4] != 1 {
		return VersionError{Version: data[4]}
	}
	h.version = data[4]
	h.dictSize = decodeDictSize(data[5])
	if !validDictSize(h.dictSize) {
		return ErrDictSize
	}
	return nil
}

// MarshalBinary encodes the 6-byte member header.
func (h *header) MarshalBinary() (data []byte, err error) {
	c, err := encodeDictSize(h.dictSize)
	if err != nil {
		return nil, err
	}
	data = make([]byte, headerLen)
	copy(data, lzipMagic)
	data[4] = 1
	data[5] = c
	return data, nil
}

// checkMagic reports whether the four magic bytes are present.
func checkMagic(data []byte) bool {
	for i := 0; i < 4; i++ {
		if data[i] != lzipMagic[i] {
			return false
		}
	}
	return true
}

// checkMagicPrefix detects a possibly truncated header: all available
// bytes, up to four, must match the magic.
func checkMagicPrefix(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := len(data)
	if n > 4 {
		n = 4
	}
	for i := 0; i < n; i++ {
		if data[i] != lzipMagic[i] {
			return false
		}
	}
	return true
}

// looksCorrupt detects a corrupt header: more than one but not all of the
// magic bytes match. The check works on truncated headers as well.
func looksCorrupt(data []byte) bool {
	n := len(data)
	if n > 4 {
		n = 4
	}
	matches := 0
	for i := 0; i < n; i++ {
		if data[i] == lzipMagic[i] {
			matches++
		}
	}
	return matches > 1 && matches < 4
}

// trailer represents the decoded 20-byte member trailer.
type trailer struct {
	// CRC32 of the uncompressed data
	crc uint32
	// size of the uncompressed data
	dataSize uint64
	// member size including header and trailer
	memberSize uint64
}

// UnmarshalBinary decodes the little-endian trailer fields.
func (t *trailer) UnmarshalBinary(data []byte) error {
	if len(data) != trailerLen {
		return errors.New("lzip: trailer has incorrect length")
	}
	t.crc = binary.LittleEndian.Uint32(data[0:4])
	t.dataSize = binary.LittleEndian.Uint64(data[4:12])
	t.memberSize = binary.LittleEndian.Uint64(data[12:20])
	return nil
}

// MarshalBinary encodes the little-endian trailer fields.
func (t *trailer) MarshalBinary() (data []byte, err error) {
	data = make([]byte, trailerLen)
	binary.LittleEndian.PutUint32(data[0:4], t.crc)
	binary.LittleEndian.PutUint64(data[4:12], t.dataSize)
	binary.LittleEndian.PutUint64(data[12:20], t.memberSize)
	return data, nil
}

// consistent checks the internal consistency of the trailer. The checks are
// necessary conditions only; they reject almost all garbage but never a
// trailer written by the encoder.
func (t *trailer) consistent() bool {
	if (t.crc == 0) != (t.dataSize == 0) {
		return false
	}
	if t.memberSize < minMemberLen {
		return false
	}
	mlimit := (9*t.dataSize+7)/8 + minMemberLen
	if mlimit > t.dataSize && t.memberSize > mlimit {
		return false
	}
	dlimit := 7090*(t.memberSize-26) - 1
	if dlimit > t.memberSize && t.dataSize > dlimit {
		return false
	}
	return true
}
