package huffzip

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCodec_FileRoundTrip(t *testing.T) {
	for _, input := range makeTestInputs() {
		t.Run(input.name, func(t *testing.T) {
			file, err := New().CompressFile(input.data)
			if err != nil {
				t.Fatalf("CompressFile failed: %v", err)
			}

			// A fresh Codec has nothing cached, so the table must be
			// rebuilt from the stored frequencies.
			out, err := New().DecompressFile(file)
			if err != nil {
				t.Fatalf("DecompressFile failed: %v", err)
			}
			if !bytes.Equal(out, input.data) {
				t.Errorf("round trip mismatch:\n\texpect: %q\n\tactual: %q", input.data, out)
			}
		})
	}
}

func TestCodec_FileLayout(t *testing.T) {
	file, err := New().CompressFile([]byte("abab"))
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	_, ct, err := Compress([]byte("abab"))
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	if string(file[0:4]) != "HUFZ" || file[4] != 1 {
		t.Errorf("wrong magic or version: %q %d", file[0:4], file[4])
	}
	if fp := binary.LittleEndian.Uint64(file[5:13]); fp != ct.Fingerprint() {
		t.Errorf("expected fingerprint %016x, got %016x", ct.Fingerprint(), fp)
	}
	expectTail := []byte{
		0x02, 0x00, // two symbols
		'a', 0x02,
		'b', 0x02,
		0x04, 0x50, // packed artifact
	}
	if actual := file[21:]; !bytes.Equal(actual, expectTail) {
		t.Errorf("wrong tail:\n\texpect: %#v\n\tactual: %#v", expectTail, actual)
	}
}

func TestCodec_DecompressFile_InvalidHeader(t *testing.T) {
	file, err := New().CompressFile([]byte("abab"))
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}

	badMagic := append([]byte(nil), file...)
	badMagic[0] = 'X'
	badVersion := append([]byte(nil), file...)
	badVersion[4] = 9
	badOrder := append([]byte(nil), file...)
	badOrder[25] = 'a'
	zeroFreq := append([]byte(nil), file...)
	zeroFreq[24] = 0

	testData := map[string][]byte{
		"empty":       nil,
		"short":       file[:10],
		"bad magic":   badMagic,
		"bad version": badVersion,
		"truncated":   file[:24],
		"bad order":   badOrder,
		"zero freq":   zeroFreq,
	}
	for name, data := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := New().DecompressFile(data)
			if !errors.Is(err, ErrInvalidHeader) {
				t.Errorf("expected ErrInvalidHeader, got %v", err)
			}
		})
	}
}

func TestCodec_DecompressFile_MismatchedTable(t *testing.T) {
	codec := New()
	file, err := codec.CompressFile([]byte("abab"))
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	file[24] = 3 // frequency of 'a'

	for name, c := range map[string]*Codec{"cached": codec, "fresh": New()} {
		t.Run(name, func(t *testing.T) {
			_, err := c.DecompressFile(file)
			if !errors.Is(err, ErrMismatchedCodeTable) {
				t.Errorf("expected ErrMismatchedCodeTable, got %v", err)
			}
		})
	}
}

func TestCodec_DecompressFile_Checksum(t *testing.T) {
	file, err := New().CompressFile([]byte("a man a plan a canal panama"))
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	file[13] ^= 0xff

	_, err = New().DecompressFile(file)
	if !errors.Is(err, ErrCorruptStream) {
		t.Errorf("expected ErrCorruptStream, got %v", err)
	}
}

func TestCodec_DecompressFile_Truncated(t *testing.T) {
	file, err := New().CompressFile([]byte("a man a plan a canal panama"))
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}

	_, err = New().DecompressFile(file[:len(file)-1])
	if !errors.Is(err, ErrCorruptStream) {
		t.Errorf("expected ErrCorruptStream, got %v", err)
	}
}

func TestCodec_CacheHit(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	codec := New(WithLogger(logger))
	file, err := codec.CompressFile([]byte("abracadabra"))
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	if _, err := codec.DecompressFile(file); err != nil {
		t.Fatalf("DecompressFile failed: %v", err)
	}
	if !strings.Contains(logs.String(), "code table cache hit") {
		t.Errorf("expected a cache hit, logs:\n%s", logs.String())
	}

	logs.Reset()
	uncached := New(WithLogger(logger), WithCacheSize(0))
	file, err = uncached.CompressFile([]byte("abracadabra"))
	if err != nil {
		t.Fatalf("CompressFile failed: %v", err)
	}
	if _, err := uncached.DecompressFile(file); err != nil {
		t.Fatalf("DecompressFile failed: %v", err)
	}
	if strings.Contains(logs.String(), "code table cache hit") {
		t.Errorf("unexpected cache hit with caching disabled, logs:\n%s", logs.String())
	}
}
