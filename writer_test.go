package lzip

import (
	"bytes"
	"math/rand"
	"testing"
)

func testFileRoundTrip(t *testing.T, data []byte, cfg WriterConfig) {
	t.Helper()
	var buf bytes.Buffer
	z, err := cfg.NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}
	n, err := z.Write(data)
	if err != nil {
		t.Fatalf("Write error %s", err)
	}
	if n != len(data) {
		t.Fatalf("Write returned %d; want %d", n, len(data))
	}
	if err = z.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	got, _, err := readAll(ReaderConfig{}, buf.Bytes())
	if err != nil {
		t.Fatalf("readAll error %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("decompressed %d bytes; want the %d input bytes",
			len(got), len(data))
	}
}

func TestWriterRoundTrip(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog.\n")
	testFileRoundTrip(t, data, WriterConfig{})
	testFileRoundTrip(t, data, WriterConfig{DictSize: MinDictSize})
}

func TestWriterRoundTripLarge(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	words := []string{"lzip ", "file ", "format ", "member ",
		"trailer ", "dictionary "}
	var sb bytes.Buffer
	for sb.Len() < 1<<18 {
		sb.WriteString(words[rnd.Intn(len(words))])
	}
	testFileRoundTrip(t, sb.Bytes(), WriterConfig{DictSize: 1 << 16})
}

func TestWriterFlush(t *testing.T) {
	var buf bytes.Buffer
	z, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}
	if _, err = z.Write([]byte("first part ")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = z.Flush(); err != nil {
		t.Fatalf("Flush error %s", err)
	}
	if _, err = z.Write([]byte("second part")); err != nil {
		t.Fatalf("Write error %s", err)
	}
	if err = z.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	got, _, err := readAll(ReaderConfig{}, buf.Bytes())
	if err != nil {
		t.Fatalf("readAll error %s", err)
	}
	if string(got) != "first part second part" {
		t.Fatalf("decompressed %q", got)
	}
}

func TestWriterConfig(t *testing.T) {
	cfg := WriterConfig{DictSize: MinDictSize - 1}
	if err := cfg.Verify(); err != ErrDictSize {
		t.Errorf("Verify returned %v; want %v", err, ErrDictSize)
	}
	cfg = WriterConfig{}
	cfg.applyDefaults()
	if cfg.DictSize != DefaultDictSize {
		t.Errorf("applyDefaults set DictSize %d; want %d",
			cfg.DictSize, DefaultDictSize)
	}
	if err := cfg.Verify(); err != nil {
		t.Errorf("Verify returned %v", err)
	}
}

func TestWriterClosed(t *testing.T) {
	var buf bytes.Buffer
	z, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter error %s", err)
	}
	if err = z.Close(); err != nil {
		t.Fatalf("Close error %s", err)
	}
	if _, err = z.Write([]byte("x")); err != errWriterClosed {
		t.Errorf("Write returned %v; want %v", err, errWriterClosed)
	}
	if err = z.Close(); err != errWriterClosed {
		t.Errorf("second Close returned %v; want %v", err,
			errWriterClosed)
	}
}
