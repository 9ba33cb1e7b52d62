package frame

import (
	"image"
	"image/color"

	"github.com/bodgit/ytfs/palette"
)

// NearestPixelColor returns the palette symbol closest to c.
func NearestPixelColor(c color.Color) palette.Symbol {
	return palette.Nearest(c)
}

type votes [palette.Size]int

// mode returns the symbol with the most votes, the lowest symbol wins a tie
func (v *votes) mode() palette.Symbol {
	var best palette.Symbol
	for i := range v {
		if v[i] > v[best] {
			best = palette.Symbol(i)
		}
	}
	return best
}

// BlockColor classifies every pixel of m within r and returns the most
// frequent symbol. Equal counts are resolved in favour of the lowest symbol.
func BlockColor(m image.Image, r image.Rectangle) palette.Symbol {
	var v votes

	r = r.Intersect(m.Bounds())

	switch m := m.(type) {
	case *image.RGBA:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			i := m.PixOffset(r.Min.X, y)
			for x := r.Min.X; x < r.Max.X; x, i = x+1, i+4 {
				v[NearestPixelColor(color.RGBA{m.Pix[i], m.Pix[i+1], m.Pix[i+2], 0xff})]++
			}
		}
	case *image.Paletted:
		// Classify each palette entry once, out of range indices are black
		var lut [256]palette.Symbol
		for i := range lut {
			lut[i] = NearestPixelColor(color.Black)
		}
		for i, c := range m.Palette {
			if i == len(lut) {
				break
			}
			lut[i] = NearestPixelColor(c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				v[lut[m.ColorIndexAt(x, y)]]++
			}
		}
	default:
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				v[NearestPixelColor(m.At(x, y))]++
			}
		}
	}

	return v.mode()
}
