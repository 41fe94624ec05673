package lzip

import "testing"

func TestDictSizeCoding(t *testing.T) {
	sizes := []uint32{
		MinDictSize, MinDictSize + 1, 12345, 1 << 16, (1 << 16) + 1,
		(1 << 20) - 3, 1 << 20, 5 << 20, 1 << 23, MaxDictSize - 1,
		MaxDictSize,
	}
	for _, size := range sizes {
		c, err := encodeDictSize(size)
		if err != nil {
			t.Fatalf("encodeDictSize(%d) error %s", size, err)
		}
		decoded := decodeDictSize(c)
		if !validDictSize(decoded) {
			t.Errorf("decodeDictSize(%#02x) = %d invalid", c,
				decoded)
		}
		if decoded < size {
			t.Errorf("decoded size %d smaller than requested %d",
				decoded, size)
		}
		base := uint32(1) << (c & 0x1f)
		if decoded-size >= base/16 && decoded != MinDictSize {
			t.Errorf("decoded size %d not minimal for %d",
				decoded, size)
		}
	}
	for _, size := range []uint32{0, MinDictSize - 1, MaxDictSize + 1} {
		if _, err := encodeDictSize(size); err != ErrDictSize {
			t.Errorf("encodeDictSize(%d) returned %v; want %v",
				size, err, ErrDictSize)
		}
	}
}

func TestHeaderMarshalling(t *testing.T) {
	h := header{version: 1, dictSize: 1 << 23}
	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error %s", err)
	}
	var g header
	if err = g.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary error %s", err)
	}
	if g != h {
		t.Fatalf("got header %+v; want %+v", g, h)
	}

	bad := make([]byte, headerLen)
	copy(bad, data)
	bad[0] = 'X'
	if err = g.UnmarshalBinary(bad); err != ErrBadMagic {
		t.Errorf("UnmarshalBinary returned %v; want %v", err,
			ErrBadMagic)
	}
	copy(bad, data)
	bad[4] = 2
	err = g.UnmarshalBinary(bad)
	if verr, ok := err.(VersionError); !ok || verr.Version != 2 {
		t.Errorf("UnmarshalBinary returned %v; want VersionError", err)
	}
	copy(bad, data)
	bad[5] = 0x0b // 2 KiB, below the minimum
	if err = g.UnmarshalBinary(bad); err != ErrDictSize {
		t.Errorf("UnmarshalBinary returned %v; want %v", err,
			ErrDictSize)
	}
}

func TestHeaderClassification(t *testing.T) {
	tests := []struct {
		p       string
		prefix  bool
		corrupt bool
	}{
		{"", false, false},
		{"L", true, false},
		{"LZ", true, true},
		{"LZI", true, true},
		{"LZIP", true, false},
		{"LZIP\x01\x18", true, false},
		{"LZI\x00", false, true},
		{"XZIP", false, true},
		{"ABCD", false, false},
		{"\xff\xff\xff\xff", false, false},
	}
	for _, tc := range tests {
		p := []byte(tc.p)
		if got := checkMagicPrefix(p); got != tc.prefix {
			t.Errorf("checkMagicPrefix(%q) = %t; want %t", tc.p,
				got, tc.prefix)
		}
		if got := looksCorrupt(p); got != tc.corrupt {
			t.Errorf("looksCorrupt(%q) = %t; want %t", tc.p, got,
				tc.corrupt)
		}
	}
}

func TestTrailerConsistency(t *testing.T) {
	tests := []struct {
		t    trailer
		want bool
	}{
		{trailer{crc: 0xabcd, dataSize: 14, memberSize: 50}, true},
		{trailer{crc: 0, dataSize: 0, memberSize: 36}, true},
		{trailer{crc: 0, dataSize: 5, memberSize: 50}, false},
		{trailer{crc: 1, dataSize: 0, memberSize: 36}, false},
		{trailer{crc: 1, dataSize: 1, memberSize: 35}, false},
		// expansion bound: a single data byte cannot need 100 bytes
		{trailer{crc: 1, dataSize: 1, memberSize: 100}, false},
		// compression bound: 46 member bytes cannot hold 1 MiB
		{trailer{crc: 1, dataSize: 1 << 20, memberSize: 46}, false},
	}
	for i, tc := range tests {
		if got := tc.t.consistent(); got != tc.want {
			t.Errorf("%d: consistent() = %t; want %t (%+v)",
				i, got, tc.want, tc.t)
		}
	}
}

func TestTrailerMarshalling(t *testing.T) {
	want := trailer{crc: 0xdeadbeef, dataSize: 123456789,
		memberSize: 987654}
	data, err := want.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error %s", err)
	}
	var got trailer
	if err = got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary error %s", err)
	}
	if got != want {
		t.Fatalf("got trailer %+v; want %+v", got, want)
	}
}
