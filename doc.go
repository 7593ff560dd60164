// Package huffzip implements a lossless byte compressor built on Huffman
// coding.
//
// Compression counts byte frequencies, builds a Huffman tree with a fixed
// tie-break, walks it to derive a prefix-free CodeTable, and packs the coded
// bits MSB-first behind a single byte that records how many zero bits of
// padding were appended.  The packed artifact does not carry its CodeTable;
// use CompressFile / DecompressFile for a self-describing format that
// persists the frequency table instead.
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huffzip
