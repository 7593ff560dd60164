package huffzip

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/chronos-tachyon/assert"
)

// CodeTable holds the forward (Symbol → Code) and reverse (Code → Symbol)
// mappings derived from one Huffman tree.  A CodeTable is immutable once
// built and is safe to share.
type CodeTable struct {
	codes   [NumSymbols]Code
	table   map[Code]decoderData
	freqs   FrequencyTable
	minSize byte
	maxSize byte
	fp      uint64
}

// NewCodeTable builds the Huffman tree for ft and derives its CodeTable.
// An empty ft yields an empty CodeTable, which can only encode and decode
// empty input.
func NewCodeTable(ft FrequencyTable) (*CodeTable, error) {
	if ft.Len() == 0 {
		ct := &CodeTable{table: make(map[Code]decoderData)}
		ct.fp = ct.fingerprint()
		return ct, nil
	}
	t, err := BuildTree(ft)
	if err != nil {
		return nil, err
	}
	return BuildCodeTable(t)
}

// BuildCodeTable derives the CodeTable of t by one depth-first traversal,
// appending "0" per left edge and "1" per right edge.  A tree that is a
// single leaf is assigned the 1-bit code "0", so that every symbol still
// costs at least one bit.
func BuildCodeTable(t *Tree) (*CodeTable, error) {
	counts := make(map[Symbol]uint64, (t.Len()+1)/2)
	ct := &CodeTable{table: make(map[Code]decoderData, t.Len())}

	var hasMinMax bool
	err := t.Walk(func(leaf Node, hc Code) error {
		if hc.Size == 0 {
			hc = MakeCode(1, 0)
		}
		assert.Assertf(ct.codes[leaf.Symbol].Size == 0, "symbol %d appears in two leaves", leaf.Symbol)

		ct.codes[leaf.Symbol] = hc
		counts[leaf.Symbol] = leaf.Freq
		fillTable(ct.table, leaf.Symbol, hc)

		if !hasMinMax {
			hasMinMax = true
			ct.minSize = hc.Size
			ct.maxSize = hc.Size
		} else if ct.minSize > hc.Size {
			ct.minSize = hc.Size
		} else if ct.maxSize < hc.Size {
			ct.maxSize = hc.Size
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ct.freqs, err = MakeFrequencyTable(counts)
	if err != nil {
		return nil, err
	}
	ct.fp = ct.fingerprint()
	return ct, nil
}

// Encode returns the Code for symbol, or false if symbol has none.
func (ct *CodeTable) Encode(symbol Symbol) (Code, bool) {
	hc := ct.codes[symbol]
	return hc, hc.Size != 0
}

// Lookup returns the Symbol whose code is exactly hc, or false if there is
// none.
func (ct *CodeTable) Lookup(hc Code) (Symbol, bool) {
	dd, found := ct.table[hc]
	if !found || !dd.leaf {
		return 0, false
	}
	return dd.symbol, true
}

// lookupPrefix reports whether hc is a complete code (leaf), a proper prefix
// of at least one code, or neither (found == false).
func (ct *CodeTable) lookupPrefix(hc Code) (dd decoderData, found bool) {
	dd, found = ct.table[hc]
	return
}

// Len returns the number of symbols with a code.
func (ct *CodeTable) Len() int {
	return ct.freqs.Len()
}

// MinSize is the bit length of the shortest code.
func (ct *CodeTable) MinSize() byte {
	return ct.minSize
}

// MaxSize is the bit length of the longest code.
func (ct *CodeTable) MaxSize() byte {
	return ct.maxSize
}

// Frequencies returns the FrequencyTable this CodeTable was derived from.
func (ct *CodeTable) Frequencies() FrequencyTable {
	return ct.freqs
}

// EncodedBits returns the length, in bits, of the encoding of any input
// with exactly the table's frequencies.
func (ct *CodeTable) EncodedBits() uint64 {
	var sum uint64
	for symbol := 0; symbol < NumSymbols; symbol++ {
		sum += ct.freqs.Count(Symbol(symbol)) * uint64(ct.codes[symbol].Size)
	}
	return sum
}

// Fingerprint returns a 64-bit hash of the codes and the symbol total.  Two
// CodeTables with equal fingerprints decode the same streams identically.
func (ct *CodeTable) Fingerprint() uint64 {
	return ct.fp
}

func (ct *CodeTable) fingerprint() uint64 {
	var scratch [16]byte
	d := xxhash.New()
	binary.LittleEndian.PutUint64(scratch[:8], ct.freqs.Total())
	_, _ = d.Write(scratch[:8])
	for symbol := 0; symbol < NumSymbols; symbol++ {
		hc := ct.codes[symbol]
		if hc.Size == 0 {
			continue
		}
		scratch[0] = byte(symbol)
		scratch[1] = hc.Size
		binary.LittleEndian.PutUint64(scratch[2:10], hc.Bits)
		_, _ = d.Write(scratch[:10])
	}
	return d.Sum64()
}

// String returns a brief description of this CodeTable.
func (ct *CodeTable) String() string {
	if ct.Len() == 0 {
		return "(empty Huffman code table)"
	}
	return fmt.Sprintf("(Huffman code table with %d symbols, with coded lengths of %d .. %d bits)", ct.Len(), ct.minSize, ct.maxSize)
}

// Dump writes a programmer-readable debugging dump of the CodeTable's
// current state to the given writer.
func (ct *CodeTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", ct.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", ct.maxSize)
	for symbol := 0; symbol < NumSymbols; symbol++ {
		hc := ct.codes[symbol]
		if hc.Size != 0 {
			fmt.Fprintf(&buf, "\tEncode(%d) = %s\n", symbol, hc)
		}
	}
	keys := make(byCode, 0, len(ct.table))
	for hc := range ct.table {
		keys = append(keys, hc)
	}
	keys.Sort()
	for _, hc := range keys {
		dd := ct.table[hc]
		if dd.leaf {
			fmt.Fprintf(&buf, "\tLookup(%s) = %d\n", hc, dd.symbol)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

var _ fmt.Stringer = (*CodeTable)(nil)

// decoderData is stored for every complete code and for every proper prefix
// of one.  Prefix entries have leaf == false and record the size of the
// shortest code below them, so that Decode can read up to it in one step.
type decoderData struct {
	symbol  Symbol
	leaf    bool
	minSize byte
}

func fillTable(table map[Code]decoderData, symbol Symbol, hc Code) {
	dd := decoderData{symbol, true, hc.Size}
	table[hc] = dd

	for hc.Size != 0 {
		// For each hc "...xxa", compute "...xxA" where A = NOT a.

		sibling := hc
		sibling.Bits ^= 1

		// Merge the dd's from "...xxa" (dd) and "...xxA" (ddSibling)
		// into ddNew (the new parent for dd and ddSibling).

		ddNew := decoderData{0, false, dd.minSize}
		if ddSibling, found := table[sibling]; found && ddNew.minSize > ddSibling.minSize {
			ddNew.minSize = ddSibling.minSize
		}

		// Mutate hc from "...xxa" to "...xx".

		hc.Size--
		hc.Bits >>= 1

		// If table[hc] already equals ddNew, we can stop recursing.

		if ddOld, found := table[hc]; found && ddOld == ddNew {
			break
		}

		// Update table[hc] with ddNew and continue recursing.

		table[hc] = ddNew
		dd = ddNew
	}
}

// type byCode {{{

type byCode []Code

func (list byCode) Sort() {
	sort.Sort(list)
}

func (list byCode) Len() int {
	return len(list)
}

func (list byCode) Swap(i, j int) {
	list[i], list[j] = list[j], list[i]
}

func (list byCode) Less(i, j int) bool {
	a, b := list[i], list[j]
	as, ab := a.Size, a.Bits
	bs, bb := b.Size, b.Bits
	if as != bs {
		return as < bs
	}
	return ab < bb
}

var _ sort.Interface = byCode(nil)

// }}}
