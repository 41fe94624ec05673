// Copyright 2026 Ulrich Kunitz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lzip

import (
	"bufio"
	"errors"
	"hash/crc32"
	"io"

	"github.com/ulikunitz/lzip/lzma"
)

// WriterConfig defines the parameters for the writer.
type WriterConfig struct {
	// DictSize is the dictionary size of the member written. It
	// defaults to DefaultDictSize.
	DictSize int
}

// applyDefaults fills in the default values.
func (cfg *WriterConfig) applyDefaults() {
	if cfg.DictSize == 0 {
		cfg.DictSize = DefaultDictSize
	}
}

// Verify checks the configuration for errors.
func (cfg *WriterConfig) Verify() error {
	if !(MinDictSize <= cfg.DictSize && cfg.DictSize <= MaxDictSize) {
		return ErrDictSize
	}
	return nil
}

// Writer compresses data into a single member. Concatenating the output of
// multiple writers produces a valid multi-member file.
type Writer struct {
	bw     *bufio.Writer
	e      *lzma.Encoder
	crc    uint32
	n      int64
	closed bool
}

// NewWriter creates a writer with the default configuration and writes the
// member header.
func NewWriter(w io.Writer) (z *Writer, err error) {
	return WriterConfig{}.NewWriter(w)
}

// NewWriter creates a writer for the given configuration and writes the
// member header.
func (cfg WriterConfig) NewWriter(w io.Writer) (z *Writer, err error) {
	cfg.applyDefaults()
	if err = cfg.Verify(); err != nil {
		return nil, err
	}
	z = &Writer{bw: bufio.NewWriter(w)}
	h := header{version: 1, dictSize: uint32(cfg.DictSize)}
	data, err := h.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if _, err = z.bw.Write(data); err != nil {
		return nil, err
	}
	if z.e, err = lzma.NewEncoder(z.bw, cfg.DictSize); err != nil {
		return nil, err
	}
	return z, nil
}

// errWriterClosed indicates that the writer has been closed before.
var errWriterClosed = errors.New("lzip: writer is closed")

// Write compresses the provided data.
func (z *Writer) Write(p []byte) (n int, err error) {
	if z.closed {
		return 0, errWriterClosed
	}
	n, err = z.e.Write(p)
	z.crc = crc32.Update(z.crc, crc32.IEEETable, p[:n])
	z.n += int64(n)
	return n, err
}

// Flush writes a sync flush marker and flushes the underlying writer. All
// data provided so far becomes decodable; the member is not terminated.
func (z *Writer) Flush() error {
	if z.closed {
		return errWriterClosed
	}
	if err := z.e.Flush(); err != nil {
		return err
	}
	return z.bw.Flush()
}

// Close terminates the member with the end-of-stream marker, writes the
// member trailer and flushes the underlying writer. The writer cannot be
// used afterwards.
func (z *Writer) Close() error {
	if z.closed {
		return errWriterClosed
	}
	z.closed = true
	if err := z.e.Close(); err != nil {
		return err
	}
	t := trailer{
		crc:      z.crc,
		dataSize: uint64(z.n),
		memberSize: uint64(headerLen) + uint64(z.e.Compressed()) +
			trailerLen,
	}
	data, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err = z.bw.Write(data); err != nil {
		return err
	}
	return z.bw.Flush()
}
