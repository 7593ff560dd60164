package huffzip

// Symbol represents one byte of input.  All 256 values are valid, including
// zero and non-printable bytes.
type Symbol byte

// NumSymbols is the size of the alphabet.
const NumSymbols = 256

// MaxCodeSize is the longest code, in bits, that a CodeTable can hold.
const MaxCodeSize = 64
