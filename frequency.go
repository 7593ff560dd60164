package huffzip

import (
	"bytes"
	"fmt"
	"io"
)

// FrequencyTable maps each Symbol to its number of occurrences.  It is a
// value type and is never modified after construction.
type FrequencyTable struct {
	counts   [NumSymbols]uint64
	total    uint64
	distinct int
}

// CountFrequencies counts the occurrences of each byte in data.  Empty input
// yields an empty table.
func CountFrequencies(data []byte) FrequencyTable {
	var ft FrequencyTable
	for _, b := range data {
		ft.counts[b]++
	}
	ft.total = uint64(len(data))
	for _, count := range ft.counts {
		if count != 0 {
			ft.distinct++
		}
	}
	return ft
}

// MakeFrequencyTable constructs a FrequencyTable from explicit counts.
// Symbols missing from the map have a count of 0.
func MakeFrequencyTable(counts map[Symbol]uint64) (FrequencyTable, error) {
	var ft FrequencyTable
	for symbol, count := range counts {
		if count == 0 {
			continue
		}
		sum := ft.total + count
		if sum < ft.total {
			return FrequencyTable{}, fmt.Errorf("huffzip: frequency total overflows uint64")
		}
		ft.counts[symbol] = count
		ft.total = sum
		ft.distinct++
	}
	return ft, nil
}

// Count returns the number of occurrences of symbol.
func (ft FrequencyTable) Count(symbol Symbol) uint64 {
	return ft.counts[symbol]
}

// Total returns the sum of all counts, i.e. the length of the input.
func (ft FrequencyTable) Total() uint64 {
	return ft.total
}

// Len returns the number of distinct symbols with a non-zero count.
func (ft FrequencyTable) Len() int {
	return ft.distinct
}

// Symbols returns the symbols with a non-zero count, in ascending order.
func (ft FrequencyTable) Symbols() []Symbol {
	out := make([]Symbol, 0, ft.distinct)
	for symbol := 0; symbol < NumSymbols; symbol++ {
		if ft.counts[symbol] != 0 {
			out = append(out, Symbol(symbol))
		}
	}
	return out
}

// Dump writes a programmer-readable debugging dump of the FrequencyTable to
// the given writer.
func (ft FrequencyTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("FrequencyTable{\n")
	fmt.Fprintf(&buf, "\tTotal() = %d\n", ft.total)
	fmt.Fprintf(&buf, "\tLen() = %d\n", ft.distinct)
	for _, symbol := range ft.Symbols() {
		fmt.Fprintf(&buf, "\tCount(%d) = %d\n", symbol, ft.counts[symbol])
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}
