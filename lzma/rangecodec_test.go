package lzma

import (
	"bufio"
	"bytes"
	"testing"
)

func TestRangeCoderBits(t *testing.T) {
	bits := []uint32{0, 1, 1, 0, 1, 0, 0, 0, 1, 1, 1, 0, 0, 1, 0, 1,
		1, 1, 0, 0, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 1}
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	var e rangeEncoder
	e.init(bw)
	probs := make([]prob, 4)
	initProbSlice(probs)
	for i, b := range bits {
		if err := e.encodeBit(b, &probs[i%4]); err != nil {
			t.Fatalf("encodeBit error %s", err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush error %s", err)
	}

	var d rangeDecoder
	err := d.init(bytes.NewReader(buf.Bytes()), false)
	if err != nil {
		t.Fatalf("init error %s", err)
	}
	initProbSlice(probs)
	for i, want := range bits {
		b, err := d.decodeBit(&probs[i%4])
		if err != nil {
			t.Fatalf("decodeBit %d error %s", i, err)
		}
		if b != want {
			t.Fatalf("bit %d: got %d; want %d", i, b, want)
		}
	}
}

func TestRangeCoderDirectBits(t *testing.T) {
	values := []uint32{0, 1, 0x55, 0xff, 0x12345, 1<<24 - 1}
	widths := []int{1, 1, 8, 8, 20, 24}
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	var e rangeEncoder
	e.init(bw)
	for i, v := range values {
		dc := directCodec(widths[i])
		if err := dc.Encode(&e, v); err != nil {
			t.Fatalf("Encode error %s", err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush error %s", err)
	}

	var d rangeDecoder
	if err := d.init(bytes.NewReader(buf.Bytes()), false); err != nil {
		t.Fatalf("init error %s", err)
	}
	for i, want := range values {
		dc := directCodec(widths[i])
		v, err := dc.Decode(&d)
		if err != nil {
			t.Fatalf("Decode %d error %s", i, err)
		}
		if v != want {
			t.Fatalf("value %d: got %#x; want %#x", i, v, want)
		}
	}
}

func TestRangeCoderFirstByteZero(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	var e rangeEncoder
	e.init(bw)
	p := probInit
	for i := 0; i < 100; i++ {
		if err := e.encodeBit(uint32(i)&1, &p); err != nil {
			t.Fatalf("encodeBit error %s", err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	if err := bw.Flush(); err != nil {
		t.Fatalf("Flush error %s", err)
	}
	if buf.Len() == 0 || buf.Bytes()[0] != 0 {
		t.Fatalf("first output byte not zero")
	}
}

func TestRangeDecoderMarking(t *testing.T) {
	data := []byte{1, 0, 0, 0, 0, 0, 0, 0}
	var d rangeDecoder
	err := d.init(bytes.NewReader(data), false)
	if err != ErrMarking {
		t.Fatalf("init returned %v; want %v", err, ErrMarking)
	}
	err = d.init(bytes.NewReader(data), true)
	if err != nil {
		t.Fatalf("init with ignoreMarking returned %v", err)
	}
}
