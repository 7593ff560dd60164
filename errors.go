package huffzip

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a Huffman tree is requested for a
	// FrequencyTable with no symbols.
	ErrEmptyInput = errors.New("huffzip: empty input: no symbols to build a tree from")

	// ErrMissingCode is returned when a symbol being encoded has no code.
	ErrMissingCode = errors.New("huffzip: symbol has no code")

	// ErrCorruptStream is returned when a packed artifact cannot be decoded
	// back into exactly the symbols it was built from.
	ErrCorruptStream = errors.New("huffzip: corrupt stream")

	// ErrMismatchedCodeTable is returned when the CodeTable supplied for
	// decoding is not the one the data was encoded with.
	ErrMismatchedCodeTable = errors.New("huffzip: mismatched code table")

	// ErrNoCodeTable is returned when decompression is attempted without a
	// CodeTable.
	ErrNoCodeTable = errors.New("huffzip: no code table supplied")

	// ErrCodeTooLong is returned when a code would exceed MaxCodeSize bits.
	ErrCodeTooLong = errors.New("huffzip: code too long")

	// ErrInvalidHeader is returned when a compressed file does not start
	// with a valid header.
	ErrInvalidHeader = errors.New("huffzip: invalid header")
)

// MissingCodeError reports a symbol absent from the forward mapping.
type MissingCodeError struct {
	Symbol Symbol
	Offset int
}

func (err MissingCodeError) Error() string {
	return fmt.Sprintf("huffzip: symbol %#02x at offset %d has no code", byte(err.Symbol), err.Offset)
}

func (err MissingCodeError) Is(target error) bool {
	return target == ErrMissingCode
}

// CorruptStreamError reports where and why decoding failed.  Offset counts
// bits from the start of the structure named in Reason.
type CorruptStreamError struct {
	Offset uint64
	Reason string
}

func (err CorruptStreamError) Error() string {
	return fmt.Sprintf("huffzip: corrupt stream at bit %d: %s", err.Offset, err.Reason)
}

func (err CorruptStreamError) Is(target error) bool {
	return target == ErrCorruptStream
}

// MismatchedCodeTableError reports two differing CodeTable fingerprints.
type MismatchedCodeTableError struct {
	Expect uint64
	Actual uint64
}

func (err MismatchedCodeTableError) Error() string {
	return fmt.Sprintf("huffzip: mismatched code table: expected fingerprint %016x, got %016x", err.Expect, err.Actual)
}

func (err MismatchedCodeTableError) Is(target error) bool {
	return target == ErrMismatchedCodeTable
}

var (
	_ error = MissingCodeError{}
	_ error = CorruptStreamError{}
	_ error = MismatchedCodeTableError{}
)
