package frame

import (
	"image"

	"github.com/bodgit/ytfs/palette"
)

type encoder struct {
	l Layout
	m *image.Paletted
}

func (e *encoder) fill(x0, y0, x1, y1 int, s palette.Symbol) {
	for y := y0; y < y1; y++ {
		i := e.m.PixOffset(x0, y)
		row := e.m.Pix[i : i+x1-x0]
		for x := range row {
			row[x] = uint8(s)
		}
	}
}

func (e *encoder) encode(s []palette.Symbol, f int) {
	base := f * e.l.Capacity()
	for by := 0; by < e.l.Rows(); by++ {
		for bx := 0; bx < e.l.Columns(); bx++ {
			sym := Padding
			if i := base + by*e.l.Columns() + bx; i < len(s) {
				sym = s[i]
			}
			x0, y0, x1, y1 := e.l.block(bx, by)
			e.fill(x0, y0, x1, y1, sym)
		}
	}
}

// Render draws data frame f, counting from zero, of the symbols s. The
// layout is assumed to be valid. Render has no side effects so frames may be
// rendered concurrently.
func (l Layout) Render(s []palette.Symbol, f int) *image.Paletted {
	e := encoder{
		l: l,
		m: image.NewPaletted(image.Rect(0, 0, l.Width, l.Height), palette.Palette),
	}
	e.encode(s, f)
	return e.m
}
