package header

import (
	"image"
	"image/color"
	"image/draw"
)

const (
	black = iota
	white
)

var bw = color.Palette{color.Black, color.White}

// Render draws the header frame for h at the given dimensions.
func Render(h Header, width, height int) (*image.Paletted, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}

	m := image.NewPaletted(image.Rect(0, 0, width, height), bw)

	stripe := width / Bits
	for f, v := range h.fields() {
		y0, y1 := band(f, height)
		for i := 0; i < Bits; i++ {
			c := uint8(black)
			if v&(1<<uint(i)) != 0 {
				c = white
			}
			r := image.Rect(i*stripe, y0, (i+1)*stripe, y1)
			draw.Draw(m, r, &image.Uniform{bw[c]}, image.Point{}, draw.Src)
		}
	}

	return m, nil
}

// band returns the rows covered by field f; the last band absorbs any
// remainder
func band(f, height int) (int, int) {
	y0 := f * height / fields
	if f == fields-1 {
		return y0, height
	}
	return y0, (f + 1) * height / fields
}
