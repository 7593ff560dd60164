package huffzip

import (
	"bytes"
	"errors"
	"testing"
)

func mustCodeTable(t *testing.T, input string) *CodeTable {
	t.Helper()
	ct, err := NewCodeTable(CountFrequencies([]byte(input)))
	if err != nil {
		t.Fatalf("NewCodeTable(%q) failed: %v", input, err)
	}
	return ct
}

func mustBitString(t *testing.T, str string) BitString {
	t.Helper()
	bs, err := ParseBitString(str)
	if err != nil {
		t.Fatalf("ParseBitString(%q) failed: %v", str, err)
	}
	return bs
}

func TestParseBitString(t *testing.T) {
	for _, str := range []string{"", "0", "1", "0101", "11111111", "101010101"} {
		bs := mustBitString(t, str)
		if bs.Len() != uint64(len(str)) {
			t.Errorf("%q: expected length %d, got %d", str, len(str), bs.Len())
		}
		if bs.String() != str {
			t.Errorf("expected %q, got %q", str, bs.String())
		}
	}
	if _, err := ParseBitString("01x"); err == nil {
		t.Errorf("ParseBitString(\"01x\") succeeded, expected error")
	}
}

func TestEncode(t *testing.T) {
	type testRow struct {
		table  string
		input  string
		expect string
	}

	testData := [...]testRow{
		{table: "abab", input: "abab", expect: "0101"},
		{table: "abab", input: "", expect: ""},
		{table: "aaaaaa", input: "aaaaaa", expect: "000000"},
		{table: "abc", input: "abc", expect: "10110"},
		{table: "abc", input: "cba", expect: "01110"},
	}
	for _, row := range testData {
		t.Run(row.table+"/"+row.input, func(t *testing.T) {
			ct := mustCodeTable(t, row.table)
			bs, err := Encode([]byte(row.input), ct)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if actual := bs.String(); actual != row.expect {
				t.Errorf("wrong bits:\n\texpect: %s\n\tactual: %s", row.expect, actual)
			}
		})
	}
}

func TestEncode_MissingCode(t *testing.T) {
	ct := mustCodeTable(t, "ab")
	_, err := Encode([]byte("abc"), ct)
	if !errors.Is(err, ErrMissingCode) {
		t.Fatalf("expected ErrMissingCode, got %v", err)
	}
	var mce MissingCodeError
	if !errors.As(err, &mce) || mce.Symbol != 'c' || mce.Offset != 2 {
		t.Errorf("expected MissingCodeError{'c', 2}, got %#v", err)
	}
}

func TestPadding(t *testing.T) {
	testData := map[uint64]uint8{0: 0, 1: 7, 4: 4, 7: 1, 8: 0, 13: 3, 16: 0, 224: 0}
	for n, expect := range testData {
		if actual := Padding(n); actual != expect {
			t.Errorf("Padding(%d): expected %d, got %d", n, expect, actual)
		}
	}
}

func TestPadAndPack(t *testing.T) {
	type testRow struct {
		bits   string
		padded string
		packed []byte
	}

	testData := [...]testRow{
		{bits: "", padded: "00000000", packed: []byte{0x00}},
		{bits: "0101", padded: "00000100" + "0101" + "0000", packed: []byte{0x04, 0x50}},
		{bits: "000000", padded: "00000010" + "000000" + "00", packed: []byte{0x02, 0x00}},
		{bits: "11111111", padded: "00000000" + "11111111", packed: []byte{0x00, 0xff}},
		{bits: "110011001", padded: "00000111" + "110011001" + "0000000", packed: []byte{0x07, 0xcc, 0x80}},
	}
	for _, row := range testData {
		t.Run(row.bits, func(t *testing.T) {
			padded, err := Pad(mustBitString(t, row.bits))
			if err != nil {
				t.Fatalf("Pad failed: %v", err)
			}
			if padded.Len()%8 != 0 {
				t.Errorf("padded length %d is not a multiple of 8", padded.Len())
			}
			if actual := padded.String(); actual != row.padded {
				t.Errorf("wrong padded bits:\n\texpect: %s\n\tactual: %s", row.padded, actual)
			}
			packed := Pack(padded)
			if !bytes.Equal(packed, row.packed) {
				t.Errorf("wrong packed bytes:\n\texpect: %#v\n\tactual: %#v", row.packed, packed)
			}

			unpadded, err := RemovePadding(Unpack(packed))
			if err != nil {
				t.Fatalf("RemovePadding failed: %v", err)
			}
			if actual := unpadded.String(); actual != row.bits {
				t.Errorf("wrong unpadded bits:\n\texpect: %s\n\tactual: %s", row.bits, actual)
			}
		})
	}
}

func TestRemovePadding_Corrupt(t *testing.T) {
	testData := map[string][]byte{
		"empty":            {},
		"padding too big":  {0x08, 0x00},
		"padding too long": {0x03},
		"non-zero padding": {0x04, 0x51},
	}
	for name, packed := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := RemovePadding(Unpack(packed))
			if !errors.Is(err, ErrCorruptStream) {
				t.Errorf("expected ErrCorruptStream, got %v", err)
			}
		})
	}

	_, err := RemovePadding(mustBitString(t, "0000000001"))
	if !errors.Is(err, ErrCorruptStream) {
		t.Errorf("unaligned input: expected ErrCorruptStream, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	ct := mustCodeTable(t, "abc")
	out, err := Decode(mustBitString(t, "10110"+"01110"), ct)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(out) != "abccba" {
		t.Errorf("expected %q, got %q", "abccba", out)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	type testRow struct {
		name  string
		table string
		bits  string
	}

	testData := [...]testRow{
		{name: "residual", table: "abc", bits: "101"},
		{name: "no such code", table: "aaaaaa", bits: "001"},
		{name: "empty table", table: "", bits: "0"},
	}
	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			ct := mustCodeTable(t, row.table)
			out, err := Decode(mustBitString(t, row.bits), ct)
			if !errors.Is(err, ErrCorruptStream) {
				t.Errorf("expected ErrCorruptStream, got %v", err)
			}
			if out != nil {
				t.Errorf("expected no output, got %q", out)
			}
		})
	}
}

func TestDecode_SkipsToShortestCode(t *testing.T) {
	ct := makeTestCodeTable()

	// 5 2 4 0 1 3 5
	bits := "0" + "100" + "111" + "1100" + "1101" + "101" + "0"
	out, err := Decode(mustBitString(t, bits), ct)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if expect := []byte{5, 2, 4, 0, 1, 3, 5}; !bytes.Equal(out, expect) {
		t.Errorf("wrong output:\n\texpect: %v\n\tactual: %v", expect, out)
	}

	for _, bits := range []string{"0" + "11", "110", "1"} {
		_, err := Decode(mustBitString(t, bits), ct)
		if !errors.Is(err, ErrCorruptStream) {
			t.Errorf("%s: expected ErrCorruptStream, got %v", bits, err)
		}
	}
}
