/*
Package symbol converts raw bytes to and from palette symbols.

Every group of three bytes is split into four 6-bit symbols:

	Symbol0: R=b0[1:0]  G=b0[3:2]  B=b0[5:4]
	Symbol1: R=b0[7:6]  G=b1[1:0]  B=b1[3:2]
	Symbol2: R=b1[5:4]  G=b1[7:6]  B=b2[1:0]
	Symbol3: R=b2[3:2]  G=b2[5:4]  B=b2[7:6]

A final group of fewer than three bytes is padded with zeroes.
*/
package symbol

import (
	"errors"

	"github.com/bodgit/ytfs/palette"
)

const (
	// GroupBytes is the number of bytes in a group
	GroupBytes = 3

	// GroupSymbols is the number of symbols a group encodes to
	GroupSymbols = 4
)

// ErrShortSymbols is returned when there are not enough symbols to decode
// the requested number of bytes.
var ErrShortSymbols = errors.New("symbol: not enough symbols")

func crumb(b byte, shift uint) int {
	return int(b>>shift) & 3
}

// EncodeGroup splits three bytes into four symbols.
func EncodeGroup(b0, b1, b2 byte) [GroupSymbols]palette.Symbol {
	return [GroupSymbols]palette.Symbol{
		palette.NewSymbol(crumb(b0, 0), crumb(b0, 2), crumb(b0, 4)),
		palette.NewSymbol(crumb(b0, 6), crumb(b1, 0), crumb(b1, 2)),
		palette.NewSymbol(crumb(b1, 4), crumb(b1, 6), crumb(b2, 0)),
		palette.NewSymbol(crumb(b2, 2), crumb(b2, 4), crumb(b2, 6)),
	}
}

// DecodeGroup reassembles three bytes from four symbols. It is the inverse
// of EncodeGroup.
func DecodeGroup(s [GroupSymbols]palette.Symbol) (b0, b1, b2 byte) {
	r0, g0, bl0 := s[0].RGB()
	r1, g1, bl1 := s[1].RGB()
	r2, g2, bl2 := s[2].RGB()
	r3, g3, bl3 := s[3].RGB()

	b0 = byte(r0 | g0<<2 | bl0<<4 | r1<<6)
	b1 = byte(g1 | bl1<<2 | r2<<4 | g2<<6)
	b2 = byte(bl2 | r3<<2 | g3<<4 | bl3<<6)

	return
}

// Len returns the number of symbols needed to encode n bytes.
func Len(n int) int {
	return (n + GroupBytes - 1) / GroupBytes * GroupSymbols
}

// Encode returns the symbols encoding p.
func Encode(p []byte) []palette.Symbol {
	s := make([]palette.Symbol, 0, Len(len(p)))
	for i := 0; i < len(p); i += GroupBytes {
		var tmp [GroupBytes]byte
		copy(tmp[:], p[i:])
		g := EncodeGroup(tmp[0], tmp[1], tmp[2])
		s = append(s, g[:]...)
	}
	return s
}

// Decode returns the first size bytes encoded by s. Any symbols beyond
// those needed are ignored.
func Decode(s []palette.Symbol, size int) ([]byte, error) {
	if size < 0 || len(s) < (size*GroupSymbols+GroupBytes-1)/GroupBytes {
		return nil, ErrShortSymbols
	}

	p := make([]byte, 0, size+GroupBytes)
	for i := 0; len(p) < size; i += GroupSymbols {
		var g [GroupSymbols]palette.Symbol
		copy(g[:], s[i:])
		b0, b1, b2 := DecodeGroup(g)
		p = append(p, b0, b1, b2)
	}

	return p[:size], nil
}
