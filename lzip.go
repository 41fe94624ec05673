// Copyright 2026 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lzip supports the compression and decompression of lzip files. It
// provides a multi-member Reader, a Writer, and an Index type that maps
// uncompressed offsets to member locations of a seekable file.
package lzip

import (
	"errors"
	"fmt"

	"github.com/ulikunitz/lzip/lzma"
)

// Limits for the dictionary size of a member.
const (
	// MinDictSize is the minimum dictionary size, which is 4 KiB.
	MinDictSize = lzma.MinDictSize
	// MaxDictSize is the maximum dictionary size, which is 512 MiB.
	MaxDictSize = lzma.MaxDictSize
	// DefaultDictSize is the dictionary size the Writer uses if the
	// configuration doesn't provide one.
	DefaultDictSize = 1 << 23
)

// Errors of the lzip file format.
var (
	// ErrBadMagic indicates that the file doesn't start with the magic
	// bytes of a member header.
	ErrBadMagic = errors.New(
		"lzip: bad magic number (file not in lzip format)")
	// ErrDictSize indicates an invalid dictionary size in a member
	// header.
	ErrDictSize = errors.New(
		"lzip: invalid dictionary size in member header")
	// ErrUnexpectedEOF indicates that the input ended inside a member.
	ErrUnexpectedEOF = errors.New("lzip: unexpected end of input")
	// ErrCRC indicates that the CRC stored in the member trailer doesn't
	// match the decompressed data.
	ErrCRC = errors.New("lzip: CRC mismatch")
	// ErrDataSize indicates that the data size stored in the member
	// trailer doesn't match the decompressed data.
	ErrDataSize = errors.New("lzip: data size mismatch")
	// ErrMemberSize indicates that the member size stored in the member
	// trailer doesn't match the member.
	ErrMemberSize = errors.New("lzip: member size mismatch")
	// ErrTrailerTruncated indicates that the input ended inside a member
	// trailer.
	ErrTrailerTruncated = errors.New("lzip: member trailer truncated")
	// ErrEmptyMember reports a member with zero bytes of data while
	// empty members are not accepted.
	ErrEmptyMember = errors.New("lzip: empty member not allowed")
	// ErrTrailingData reports data after the last member while trailing
	// data is not accepted.
	ErrTrailingData = errors.New("lzip: trailing data not allowed")
	// ErrCorruptHeader reports bytes after a member that look like a
	// corrupt member header.
	ErrCorruptHeader = errors.New(
		"lzip: corrupt header in multimember file")
	// ErrTruncatedHeader reports bytes after a member that look like a
	// truncated member header.
	ErrTruncatedHeader = errors.New(
		"lzip: truncated header in multimember file")
	// ErrLastMember reports that the last member of the file is
	// truncated or corrupt.
	ErrLastMember = errors.New(
		"lzip: last member in input file is truncated or corrupt")
	// ErrTooShort indicates that the input is shorter than the smallest
	// possible member.
	ErrTooShort = errors.New("lzip: input file is too short")
)

// VersionError reports an unsupported version number in a member header.
type VersionError struct {
	Version byte
}

func (e VersionError) Error() string {
	return fmt.Sprintf("lzip: version %d member format not supported",
		e.Version)
}
