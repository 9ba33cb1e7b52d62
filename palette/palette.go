/*
Package palette implements the fixed 64 color palette used to carry data in
video frames.

Each color is addressed by a triple (r, g, b) where each component is in the
range 0-3 and is mapped to one of four evenly spaced luma levels. A triple
packs into a 6-bit Symbol which is also the index of the color within
Palette.
*/
package palette

import "image/color"

const (
	// Levels is the number of luma levels per channel
	Levels = 4

	// Size is the number of colors in the palette
	Size = Levels * Levels * Levels
)

var luma = [Levels]uint8{31, 95, 159, 223}

// Palette holds every palette color indexed by Symbol.
var Palette color.Palette

// rgb mirrors Palette without going through the color.Color interface
var rgb [Size]color.RGBA

func init() {
	Palette = make(color.Palette, Size)
	for r := 0; r < Levels; r++ {
		for g := 0; g < Levels; g++ {
			for b := 0; b < Levels; b++ {
				i := NewSymbol(r, g, b)
				rgb[i] = color.RGBA{luma[r], luma[g], luma[b], 0xff}
				Palette[i] = rgb[i]
			}
		}
	}
}

// Symbol is a 6-bit value made of three 2-bit fields, one per channel.
type Symbol uint8

// NewSymbol packs the channel indices r, g, b into a Symbol. Each index is
// masked to 2 bits.
func NewSymbol(r, g, b int) Symbol {
	return Symbol((r&3)<<4 | (g&3)<<2 | b&3)
}

// RGB returns the channel indices of s.
func (s Symbol) RGB() (r, g, b int) {
	return int(s>>4) & 3, int(s>>2) & 3, int(s) & 3
}

// Color returns the palette color for s.
func (s Symbol) Color() color.RGBA {
	return rgb[s&(Size-1)]
}

// Color returns the palette color for the channel indices r, g, b.
func Color(r, g, b int) color.RGBA {
	return NewSymbol(r, g, b).Color()
}

func sqDiff(x, y uint8) int {
	d := int(x) - int(y)
	return d * d
}

// Distance returns the squared Euclidean distance between c and the palette
// color for s, using 8-bit channels.
func Distance(c color.Color, s Symbol) int {
	r, g, b := rgb8(c)
	p := s.Color()
	return sqDiff(r, p.R) + sqDiff(g, p.G) + sqDiff(b, p.B)
}

func rgb8(c color.Color) (uint8, uint8, uint8) {
	if rc, ok := c.(color.RGBA); ok && rc.A == 0xff {
		return rc.R, rc.G, rc.B
	}
	r, g, b, _ := c.RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

// Nearest returns the Symbol whose color is closest to c. Ties are resolved
// in favour of the lowest Symbol.
func Nearest(c color.Color) Symbol {
	r, g, b := rgb8(c)
	return nearest(r, g, b)
}

func nearest(r, g, b uint8) Symbol {
	var best Symbol
	bestSum := int(^uint(0) >> 1)
	for i := range rgb {
		p := rgb[i]
		sum := sqDiff(r, p.R) + sqDiff(g, p.G) + sqDiff(b, p.B)
		if sum < bestSum {
			bestSum, best = sum, Symbol(i)
		}
	}
	return best
}
