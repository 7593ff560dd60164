package huffzip

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/chronos-tachyon/assert"
	"github.com/icza/bitio"
)

// BitString is a sequence of bits that is not necessarily byte-aligned.
// Bits are stored MSB-first; any bits in the last byte beyond Len() are
// zero.
type BitString struct {
	data []byte
	n    uint64
}

// ParseBitString constructs a BitString from a string of '0' and '1'
// characters.
func ParseBitString(str string) (BitString, error) {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)
	for i := 0; i < len(str); i++ {
		var err error
		switch str[i] {
		case '0':
			err = w.WriteBool(false)
		case '1':
			err = w.WriteBool(true)
		default:
			err = fmt.Errorf("bit string: invalid character %q at index %d", str[i], i)
		}
		if err != nil {
			return BitString{}, err
		}
	}
	if err := w.Close(); err != nil {
		return BitString{}, err
	}
	return BitString{data: buf.Bytes(), n: uint64(len(str))}, nil
}

// Len returns the number of bits.
func (bs BitString) Len() uint64 {
	return bs.n
}

// Bytes returns the underlying bytes, zero-padded at the end to a whole
// number of bytes.  The caller must not modify them.
func (bs BitString) Bytes() []byte {
	return bs.data
}

// String returns the bits as a string of '0' and '1' characters.
func (bs BitString) String() string {
	var sb strings.Builder
	sb.Grow(int(bs.n))
	for i := uint64(0); i < bs.n; i++ {
		if bs.data[i>>3]&(0x80>>(i&7)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

var _ fmt.Stringer = BitString{}

// Encode concatenates the codes of every byte in data.  It returns a
// MissingCodeError if some byte has no code in ct.
func Encode(data []byte, ct *CodeTable) (BitString, error) {
	var buf bytes.Buffer
	buf.Grow(len(data))
	w := bitio.NewWriter(&buf)

	var n uint64
	for offset, b := range data {
		hc, ok := ct.Encode(Symbol(b))
		if !ok {
			return BitString{}, MissingCodeError{Symbol: Symbol(b), Offset: offset}
		}
		if err := w.WriteBits(hc.Bits, hc.Size); err != nil {
			return BitString{}, err
		}
		n += uint64(hc.Size)
	}
	if err := w.Close(); err != nil {
		return BitString{}, err
	}
	return BitString{data: buf.Bytes(), n: n}, nil
}

// Padding returns the number of zero bits needed to bring n bits to a
// multiple of 8.  The result is always in 0 .. 7; already aligned input
// gets no padding.
func Padding(n uint64) uint8 {
	return uint8((8 - n%8) % 8)
}

// Pad appends Padding(bs.Len()) zero bits to bs and prepends one byte
// holding that count.  The result is always a whole number of bytes.
func Pad(bs BitString) (BitString, error) {
	padding := Padding(bs.n)

	var buf bytes.Buffer
	buf.Grow(len(bs.data) + 1)
	w := bitio.NewWriter(&buf)

	if err := w.WriteByte(padding); err != nil {
		return BitString{}, err
	}
	full := bs.n >> 3
	if _, err := w.Write(bs.data[:full]); err != nil {
		return BitString{}, err
	}
	if rem := uint8(bs.n & 7); rem != 0 {
		last := bs.data[full] >> (8 - rem)
		if err := w.WriteBits(uint64(last), rem); err != nil {
			return BitString{}, err
		}
	}
	if err := w.WriteBits(0, padding); err != nil {
		return BitString{}, err
	}
	if err := w.Close(); err != nil {
		return BitString{}, err
	}

	out := BitString{data: buf.Bytes(), n: 8 + bs.n + uint64(padding)}
	assert.Assertf(out.n%8 == 0, "padded length %d is not a multiple of 8", out.n)
	return out, nil
}

// Pack slices a padded BitString into bytes, most significant bit first.
func Pack(bs BitString) []byte {
	assert.Assertf(bs.n%8 == 0, "cannot pack %d bits: not a multiple of 8", bs.n)
	out := make([]byte, bs.n>>3)
	copy(out, bs.data)
	return out
}

// Unpack expands packed bytes into a BitString of 8 bits per byte, most
// significant bit first.
func Unpack(packed []byte) BitString {
	data := make([]byte, len(packed))
	copy(data, packed)
	return BitString{data: data, n: uint64(len(packed)) << 3}
}

// RemovePadding reads the leading padding byte p and returns the bits
// between it and the last p bits.  It returns a CorruptStreamError if the
// padding byte is missing, p exceeds 7 or the remaining length, or any of
// the padding bits is set.
func RemovePadding(bs BitString) (BitString, error) {
	if bs.n%8 != 0 {
		return BitString{}, CorruptStreamError{Offset: bs.n, Reason: "packed length is not a whole number of bytes"}
	}
	if bs.n < 8 {
		return BitString{}, CorruptStreamError{Offset: 0, Reason: "missing padding byte"}
	}

	padding := bs.data[0]
	if padding > 7 {
		return BitString{}, CorruptStreamError{Offset: 0, Reason: fmt.Sprintf("padding count %d exceeds 7", padding)}
	}
	remaining := bs.n - 8
	if uint64(padding) > remaining {
		return BitString{}, CorruptStreamError{Offset: 0, Reason: fmt.Sprintf("padding count %d exceeds remaining %d bits", padding, remaining)}
	}
	if padding != 0 {
		mask := byte(1)<<padding - 1
		if bs.data[len(bs.data)-1]&mask != 0 {
			return BitString{}, CorruptStreamError{Offset: bs.n - uint64(padding), Reason: "non-zero padding bits"}
		}
	}

	return BitString{data: bs.data[1:], n: remaining - uint64(padding)}, nil
}

// Decode walks bs, emitting a symbol each time the accumulated bits form a
// complete code in ct.  While the accumulated bits are a proper prefix, it
// reads straight up to the shortest code below that prefix, since no
// shorter match is possible.  It returns a CorruptStreamError as soon as the
// accumulated bits are not a prefix of any code, or if bs ends in the middle
// of a code.
func Decode(bs BitString, ct *CodeTable) ([]byte, error) {
	out := make([]byte, 0, estimateDecodedLen(bs.n, ct.MinSize()))
	r := bitio.NewReader(bytes.NewReader(bs.data))

	var candidate Code
	var start, i uint64
	for i < bs.n {
		dd, found := ct.lookupPrefix(candidate)
		if !found {
			return nil, CorruptStreamError{Offset: start, Reason: fmt.Sprintf("no code begins with %s", candidate)}
		}

		need := dd.minSize - candidate.Size
		if uint64(need) > bs.n-i {
			return nil, CorruptStreamError{Offset: start, Reason: fmt.Sprintf("stream ends inside code prefix %s", candidate)}
		}
		bits, err := r.ReadBits(need)
		if err != nil {
			return nil, err
		}
		candidate = MakeCode(candidate.Size+need, candidate.Bits<<need|bits)
		i += uint64(need)

		dd, found = ct.lookupPrefix(candidate)
		if !found {
			return nil, CorruptStreamError{Offset: start, Reason: fmt.Sprintf("no code begins with %s", candidate)}
		}
		if dd.leaf {
			out = append(out, byte(dd.symbol))
			candidate = Code{}
			start = i
		}
	}
	if candidate.Size != 0 {
		return nil, CorruptStreamError{Offset: start, Reason: fmt.Sprintf("stream ends inside code prefix %s", candidate)}
	}
	return out, nil
}

func estimateDecodedLen(n uint64, minSize byte) int {
	if minSize == 0 {
		return 0
	}
	return int(n / uint64(minSize))
}
