package lzma

import "errors"

// encoderDict is the dictionary of the encoder. It combines the circular
// buffer holding the data to compress with a hash table over four-byte
// sequences. The head marks the border between data already encoded, which
// forms the dictionary proper, and data still to be processed.
type encoderDict struct {
	buf  *buffer
	head int64
	size int64
	t4   *hashTable
}

// newEncoderDict creates an encoder dictionary of the given size. The
// backing buffer is larger to buffer data ahead of the head.
func newEncoderDict(size, bufSize int64) (d *encoderDict, err error) {
	if !(MinDictSize <= size && size <= MaxDictSize) {
		return nil, errors.New("lzma: dictionary size out of range")
	}
	if bufSize < size+maxMatchLen {
		return nil, errors.New("lzma: buffer size too small")
	}
	t4, err := newHashTable(size, 4)
	if err != nil {
		return nil, err
	}
	d = &encoderDict{buf: newBuffer(bufSize), size: size, t4: t4}
	d.sync()
	return d, nil
}

// move advances the head n bytes forward and records the new data in the
// hash table.
func (d *encoderDict) move(n int) error {
	if n < 0 {
		panic("n must be nonnegative")
	}
	off := d.head + int64(n)
	if off > d.buf.top {
		return errors.New("lzma: move past end of buffer")
	}
	moved, err := d.buf.writeRangeTo(d.head, off, d.t4)
	d.head += int64(moved)
	return err
}

// start returns the start of the dictionary.
func (d *encoderDict) start() int64 {
	start := d.head - d.size
	if start < d.buf.bottom {
		start = d.buf.bottom
	}
	return start
}

// buffered returns the number of bytes in front of the head that still have
// to be encoded.
func (d *encoderDict) buffered() int64 { return d.buf.top - d.head }

// sync synchronizes the write limit of the backing buffer with the current
// dictionary head.
func (d *encoderDict) sync() {
	d.buf.writeLimit = d.start() + int64(d.buf.capacity())
}
