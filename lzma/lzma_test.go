package lzma

import (
	"bytes"
	"hash/crc32"
	"io"
	"math/rand"
	"testing"
)

var testString = `LZMA decoder test example
=========================
! LZMA ! Decoder ! TEST !
=========================
! TEST ! LZMA ! Decoder !
=========================
---- Test Line 1 --------
=========================
---- Test Line 2 --------
=========================
=== End of test file ====
=========================
`

// encodeBody compresses data into a member body using the given dictionary
// size.
func encodeBody(t *testing.T, data []byte, dictSize int) []byte {
	t.Helper()
	var buf bytes.Buffer
	e, err := NewEncoder(&buf, dictSize)
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	n, err := e.Write(data)
	if err != nil {
		t.Fatalf("Write error %s", err)
	}
	if n != len(data) {
		t.Fatalf("Write returned %d; want %d", n, len(data))
	}
	if err = e.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	if e.Uncompressed() != int64(len(data)) {
		t.Fatalf("Uncompressed() %d; want %d", e.Uncompressed(),
			len(data))
	}
	if e.Compressed() != int64(buf.Len()) {
		t.Fatalf("Compressed() %d; want %d", e.Compressed(), buf.Len())
	}
	return buf.Bytes()
}

// decodeBody decompresses a member body.
func decodeBody(t *testing.T, body []byte, dictSize int) []byte {
	t.Helper()
	d, err := NewDecoder(bytes.NewReader(body), dictSize, true)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	data, err := io.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll error %s", err)
	}
	return data
}

func testRoundTrip(t *testing.T, data []byte, dictSize int) {
	t.Helper()
	body := encodeBody(t, data, dictSize)
	got := decodeBody(t, body, dictSize)
	if !bytes.Equal(got, data) {
		t.Fatalf("decoded %d bytes; want %d bytes equal input",
			len(got), len(data))
	}
}

func TestRoundTripString(t *testing.T) {
	testRoundTrip(t, []byte(testString), MinDictSize)
}

func TestRoundTripEmpty(t *testing.T) {
	testRoundTrip(t, nil, MinDictSize)
}

func TestRoundTripSingleByte(t *testing.T) {
	testRoundTrip(t, []byte{'a'}, MinDictSize)
}

func TestRoundTripZeros(t *testing.T) {
	// larger than the dictionary, so the window wraps
	testRoundTrip(t, make([]byte, 100000), MinDictSize)
}

func TestRoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(17))
	data := make([]byte, 1<<15)
	for i := range data {
		data[i] = byte(rnd.Intn(256))
	}
	testRoundTrip(t, data, MinDictSize)
}

func TestRoundTripRepetitions(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 2000; i++ {
		buf.WriteString("abcabcdabcdeabcdefabcdefg")
	}
	testRoundTrip(t, buf.Bytes(), 1<<16)
}

func TestDecoderCRC32(t *testing.T) {
	data := []byte(testString)
	body := encodeBody(t, data, MinDictSize)
	d, err := NewDecoder(bytes.NewReader(body), MinDictSize, true)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	if _, err = io.ReadAll(d); err != nil {
		t.Fatalf("ReadAll error %s", err)
	}
	if want := crc32.ChecksumIEEE(data); d.CRC32() != want {
		t.Fatalf("CRC32() %#08x; want %#08x", d.CRC32(), want)
	}
	if d.Uncompressed() != int64(len(data)) {
		t.Fatalf("Uncompressed() %d; want %d", d.Uncompressed(),
			len(data))
	}
	if d.Compressed() != int64(len(body)) {
		t.Fatalf("Compressed() %d; want %d", d.Compressed(),
			len(body))
	}
}

func TestSyncFlush(t *testing.T) {
	var buf bytes.Buffer
	e, err := NewEncoder(&buf, MinDictSize)
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	if _, err = e.Write([]byte("Hello, ")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = e.Flush(); err != nil {
		t.Fatalf("Flush error %s", err)
	}
	flushed := buf.Len()

	// everything written before the flush must be decodable now
	d, err := NewDecoder(bytes.NewReader(buf.Bytes()[:flushed]),
		MinDictSize, true)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	p := make([]byte, 7)
	if _, err = io.ReadFull(d, p); err != nil {
		t.Fatalf("ReadFull error %s", err)
	}
	if string(p) != "Hello, " {
		t.Fatalf("flushed data %q; want %q", p, "Hello, ")
	}

	if _, err = e.Write([]byte("world!\n")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = e.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	got := decodeBody(t, buf.Bytes(), MinDictSize)
	if string(got) != "Hello, world!\n" {
		t.Fatalf("decoded %q; want %q", got, "Hello, world!\n")
	}
}

func TestDecoderBadDistance(t *testing.T) {
	// encode a match at distance 5 into an empty dictionary
	var buf bytes.Buffer
	var e rangeEncoder
	e.init(&buf)
	var s state
	s.Reset()
	state, state2, posState := s.states(0)
	if err := e.encodeBit(1, &s.isMatch[state2]); err != nil {
		t.Fatalf("encodeBit error %s", err)
	}
	if err := e.encodeBit(0, &s.isRep[state]); err != nil {
		t.Fatalf("encodeBit error %s", err)
	}
	if err := s.lenCodec.Encode(&e, 0, posState); err != nil {
		t.Fatalf("lenCodec.Encode error %s", err)
	}
	if err := s.distCodec.Encode(&e, 4, 0); err != nil {
		t.Fatalf("distCodec.Encode error %s", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}

	d, err := NewDecoder(bytes.NewReader(buf.Bytes()), MinDictSize, true)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	_, err = io.ReadAll(d)
	if err != ErrDecoder {
		t.Fatalf("ReadAll returned %v; want %v", err, ErrDecoder)
	}
}

func TestDecoderUnknownMarker(t *testing.T) {
	// encode a marker with length 4
	var buf bytes.Buffer
	var e rangeEncoder
	e.init(&buf)
	var s state
	s.Reset()
	state, state2, posState := s.states(0)
	if err := e.encodeBit(1, &s.isMatch[state2]); err != nil {
		t.Fatalf("encodeBit error %s", err)
	}
	if err := e.encodeBit(0, &s.isRep[state]); err != nil {
		t.Fatalf("encodeBit error %s", err)
	}
	if err := s.lenCodec.Encode(&e, 2, posState); err != nil {
		t.Fatalf("lenCodec.Encode error %s", err)
	}
	if err := s.distCodec.Encode(&e, eosDist, 2); err != nil {
		t.Fatalf("distCodec.Encode error %s", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}

	d, err := NewDecoder(bytes.NewReader(buf.Bytes()), MinDictSize, true)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	_, err = io.ReadAll(d)
	if err != ErrUnknownMarker {
		t.Fatalf("ReadAll returned %v; want %v", err,
			ErrUnknownMarker)
	}
}

func TestDecoderUnexpectedEOF(t *testing.T) {
	body := encodeBody(t, []byte(testString), MinDictSize)
	d, err := NewDecoder(bytes.NewReader(body[:6]), MinDictSize, true)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	_, err = io.ReadAll(d)
	if err != ErrUnexpectedEOF {
		t.Fatalf("ReadAll returned %v; want %v", err,
			ErrUnexpectedEOF)
	}
}
