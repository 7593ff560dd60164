package huffzip

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	fileMagic   = "HUFZ"
	fileVersion = uint8(1)

	// magic + version + fingerprint + checksum + symbol count
	fileFixedHeaderSize = 4 + 1 + 8 + 8 + 2
)

// File format (version 1), integers little-endian:
//
//	magic       = "HUFZ"
//	version     = uint8
//	fingerprint = uint64, CodeTable.Fingerprint of the encoding table
//	checksum    = uint64, xxhash64 of the uncompressed data
//	count       = uint16, number of distinct symbols (0 .. 256)
//	repeat count times, in ascending symbol order:
//	  symbol    = uint8
//	  frequency = uvarint, non-zero
//	packed      = the artifact produced by Codec.Compress
//
// The frequency table is enough to rebuild the exact CodeTable, since tree
// construction is deterministic.

// CompressFile compresses data into the self-describing file format, which
// DecompressFile can reverse without any other input.
func (c *Codec) CompressFile(data []byte) ([]byte, error) {
	packed, ct, err := c.Compress(data)
	if err != nil {
		return nil, err
	}

	ft := ct.Frequencies()
	symbols := ft.Symbols()

	out := make([]byte, 0, fileFixedHeaderSize+len(symbols)*(1+binary.MaxVarintLen64)+len(packed))
	out = append(out, fileMagic...)
	out = append(out, fileVersion)
	out = binary.LittleEndian.AppendUint64(out, ct.Fingerprint())
	out = binary.LittleEndian.AppendUint64(out, xxhash.Sum64(data))
	out = binary.LittleEndian.AppendUint16(out, uint16(len(symbols)))
	for _, symbol := range symbols {
		out = append(out, byte(symbol))
		out = binary.AppendUvarint(out, ft.Count(symbol))
	}
	out = append(out, packed...)

	c.logger.Debug("file compressed", "original", len(data), "compressed", len(out))
	return out, nil
}

// DecompressFile reverses CompressFile.  It returns ErrInvalidHeader for a
// malformed header, a MismatchedCodeTableError if the stored frequencies do
// not rebuild the table named by the stored fingerprint, and a
// CorruptStreamError if the payload does not decode or fails its checksum.
func (c *Codec) DecompressFile(file []byte) ([]byte, error) {
	hdr, packed, err := parseFileHeader(file)
	if err != nil {
		return nil, err
	}

	ct, err := c.fileCodeTable(hdr)
	if err != nil {
		return nil, err
	}

	out, err := c.Decompress(packed, ct)
	if err != nil {
		return nil, err
	}

	if sum := xxhash.Sum64(out); sum != hdr.checksum {
		return nil, CorruptStreamError{
			Offset: uint64(len(packed)) << 3,
			Reason: fmt.Sprintf("checksum mismatch: expected %016x, got %016x", hdr.checksum, sum),
		}
	}
	return out, nil
}

func (c *Codec) fileCodeTable(hdr fileHeader) (*CodeTable, error) {
	if c.cache != nil {
		if ct, found := c.cache.Get(hdr.fingerprint); found && ct.Frequencies() == hdr.freqs {
			c.logger.Debug("code table cache hit", "fingerprint", hdr.fingerprint)
			return ct, nil
		}
	}

	ct, err := c.codeTable(hdr.freqs)
	if err != nil {
		return nil, err
	}
	if ct.Fingerprint() != hdr.fingerprint {
		return nil, MismatchedCodeTableError{Expect: hdr.fingerprint, Actual: ct.Fingerprint()}
	}
	return ct, nil
}

type fileHeader struct {
	fingerprint uint64
	checksum    uint64
	freqs       FrequencyTable
}

func parseFileHeader(file []byte) (fileHeader, []byte, error) {
	var hdr fileHeader

	if len(file) < fileFixedHeaderSize {
		return hdr, nil, fmt.Errorf("%w: %d bytes is too short", ErrInvalidHeader, len(file))
	}
	if string(file[0:4]) != fileMagic {
		return hdr, nil, fmt.Errorf("%w: bad magic %q", ErrInvalidHeader, file[0:4])
	}
	if version := file[4]; version != fileVersion {
		return hdr, nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidHeader, version)
	}
	hdr.fingerprint = binary.LittleEndian.Uint64(file[5:13])
	hdr.checksum = binary.LittleEndian.Uint64(file[13:21])
	count := int(binary.LittleEndian.Uint16(file[21:23]))
	if count > NumSymbols {
		return hdr, nil, fmt.Errorf("%w: %d symbols exceeds %d", ErrInvalidHeader, count, NumSymbols)
	}

	rest := file[fileFixedHeaderSize:]
	counts := make(map[Symbol]uint64, count)
	last := -1
	for i := 0; i < count; i++ {
		if len(rest) < 2 {
			return hdr, nil, fmt.Errorf("%w: truncated frequency table", ErrInvalidHeader)
		}
		symbol := int(rest[0])
		if symbol <= last {
			return hdr, nil, fmt.Errorf("%w: symbol %d out of order", ErrInvalidHeader, symbol)
		}
		freq, n := binary.Uvarint(rest[1:])
		if n <= 0 {
			return hdr, nil, fmt.Errorf("%w: bad frequency for symbol %d", ErrInvalidHeader, symbol)
		}
		if freq == 0 {
			return hdr, nil, fmt.Errorf("%w: zero frequency for symbol %d", ErrInvalidHeader, symbol)
		}
		counts[Symbol(symbol)] = freq
		last = symbol
		rest = rest[1+n:]
	}

	ft, err := MakeFrequencyTable(counts)
	if err != nil {
		return hdr, nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	hdr.freqs = ft
	return hdr, rest, nil
}
