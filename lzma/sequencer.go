package lzma

import (
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/lz"
)

// GSConfig configures the greedy sequencer. The WindowSize is the dictionary
// size of the member to encode; the BufferSize must exceed it so data can be
// buffered in front of the head.
type GSConfig struct {
	ShrinkSize int
	BufferSize int
	WindowSize int
	BlockSize  int
}

// SetDefaults fills in default values for the configuration.
func (cfg *GSConfig) SetDefaults() {
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 8 << 20
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = cfg.WindowSize + bufferLen
	}
	if cfg.ShrinkSize == 0 {
		cfg.ShrinkSize = 32 << 10
	}
	if cfg.BlockSize == 0 {
		cfg.BlockSize = 128 << 10
	}
}

// Verify checks the configuration for errors.
func (cfg *GSConfig) Verify() error {
	if !(MinDictSize <= cfg.WindowSize && cfg.WindowSize <= MaxDictSize) {
		return fmt.Errorf("lzma: WindowSize=%d out of range [%d..%d]",
			cfg.WindowSize, MinDictSize, MaxDictSize)
	}
	if cfg.BufferSize < cfg.WindowSize+maxMatchLen {
		return fmt.Errorf(
			"lzma: BufferSize=%d must exceed WindowSize=%d by at least %d",
			cfg.BufferSize, cfg.WindowSize, maxMatchLen)
	}
	if !(0 <= cfg.ShrinkSize && cfg.ShrinkSize <= cfg.BufferSize) {
		return fmt.Errorf(
			"lzma: ShrinkSize=%d out of range [0..BufferSize=%d]",
			cfg.ShrinkSize, cfg.BufferSize)
	}
	if cfg.BlockSize < 1 {
		return fmt.Errorf("lzma: BlockSize=%d must be positive",
			cfg.BlockSize)
	}
	return nil
}

// BufConfig returns the buffer configuration.
func (cfg *GSConfig) BufConfig() lz.BufConfig {
	return lz.BufConfig{
		ShrinkSize: cfg.ShrinkSize,
		BufferSize: cfg.BufferSize,
		WindowSize: cfg.WindowSize,
		BlockSize:  cfg.BlockSize,
	}
}

// SetBufConfig sets the buffer configuration.
func (cfg *GSConfig) SetBufConfig(bc lz.BufConfig) {
	cfg.ShrinkSize = bc.ShrinkSize
	cfg.BufferSize = bc.BufferSize
	cfg.WindowSize = bc.WindowSize
	cfg.BlockSize = bc.BlockSize
}

// NewSequencer creates a greedy sequencer for the configuration.
func (cfg *GSConfig) NewSequencer() (s lz.Sequencer, err error) {
	c := *cfg
	c.SetDefaults()
	if err = c.Verify(); err != nil {
		return nil, err
	}
	dict, err := newEncoderDict(int64(c.WindowSize), int64(c.BufferSize))
	if err != nil {
		return nil, err
	}
	return &greedySequencer{cfg: c, dict: dict}, nil
}

// greedySequencer converts the buffered byte stream into blocks of LZ77
// sequences using the hash-table match finder. It implements lz.Sequencer.
type greedySequencer struct {
	cfg  GSConfig
	dict *encoderDict
}

// Sequence fills the block with sequences and literals for up to BlockSize
// bytes of buffered data. With the lz.NoTrailingLiterals flag the tail of
// the buffer stays unsequenced, so a match is not cut short at the block
// boundary while more data may still arrive.
func (s *greedySequencer) Sequence(blk *lz.Block, flags int) (n int, err error) {
	blk.Sequences = blk.Sequences[:0]
	blk.Literals = blk.Literals[:0]
	blockSize := int64(s.cfg.BlockSize)
	start := s.dict.head
	litLen := uint32(0)
	for s.dict.head-start < blockSize {
		rest := s.dict.buffered()
		if rest <= 0 {
			break
		}
		if flags&lz.NoTrailingLiterals != 0 && rest < maxMatchLen {
			break
		}
		op, err := findOp(s.dict)
		if err != nil {
			return int(s.dict.head - start), err
		}
		switch x := op.(type) {
		case lit:
			blk.Literals = append(blk.Literals, x.b)
			litLen++
		case match:
			blk.Sequences = append(blk.Sequences, lz.Seq{
				LitLen:   litLen,
				MatchLen: uint32(x.n),
				Offset:   uint32(x.distance),
			})
			litLen = 0
		}
		if err = s.dict.move(op.Len()); err != nil {
			return int(s.dict.head - start), err
		}
	}
	n = int(s.dict.head - start)
	if n == 0 {
		return 0, lz.ErrEmptyBuffer
	}
	s.dict.sync()
	return n, nil
}

// Reset reinitializes the sequencer with the given data as buffer content.
func (s *greedySequencer) Reset(data []byte) error {
	dict, err := newEncoderDict(int64(s.cfg.WindowSize),
		int64(s.cfg.BufferSize))
	if err != nil {
		return err
	}
	s.dict = dict
	if len(data) == 0 {
		return nil
	}
	n, err := s.dict.buf.Write(data)
	if err == errLimit || n < len(data) {
		return lz.ErrFullBuffer
	}
	return err
}

// Shrink makes room in the buffer. The circular buffer reclaims space in
// place as the head moves, so there is nothing to do.
func (s *greedySequencer) Shrink() int { return 0 }

// SeqConfig returns the sequencer configuration.
func (s *greedySequencer) SeqConfig() lz.SeqConfig {
	cfg := s.cfg
	return &cfg
}

// BufferConfig returns the buffer configuration.
func (s *greedySequencer) BufferConfig() lz.BufConfig {
	return s.cfg.BufConfig()
}

// Write buffers the data provided. If the buffer cannot hold all of it, the
// number of bytes stored is returned together with lz.ErrFullBuffer.
func (s *greedySequencer) Write(p []byte) (n int, err error) {
	n, err = s.dict.buf.Write(p)
	if err == errLimit {
		err = lz.ErrFullBuffer
	}
	return n, err
}

// ReadFrom fills the buffer from the reader. It returns lz.ErrFullBuffer
// when the buffer is full before the reader is drained.
func (s *greedySequencer) ReadFrom(r io.Reader) (n int64, err error) {
	p := make([]byte, 32<<10)
	for {
		avail := s.dict.buf.writeLimit - s.dict.buf.top
		if avail <= 0 {
			return n, lz.ErrFullBuffer
		}
		k := len(p)
		if int64(k) > avail {
			k = int(avail)
		}
		m, rerr := r.Read(p[:k])
		if m > 0 {
			if _, werr := s.dict.buf.Write(p[:m]); werr != nil {
				return n, werr
			}
			n += int64(m)
		}
		if rerr != nil {
			if rerr == io.EOF {
				return n, nil
			}
			return n, rerr
		}
	}
}

// ReadAt reads buffered data at the absolute stream offset.
func (s *greedySequencer) ReadAt(p []byte, off int64) (n int, err error) {
	return s.dict.buf.ReadAt(p, off)
}

// errByteAt indicates that the requested offset is outside the buffer.
var errByteAt = errors.New("lzma: offset outside buffer")

// ByteAt returns the byte at the absolute stream offset.
func (s *greedySequencer) ByteAt(off int64) (c byte, err error) {
	b := s.dict.buf
	if !(b.bottom <= off && off < b.top) {
		return 0, errByteAt
	}
	return b.data[b.index(off)], nil
}
