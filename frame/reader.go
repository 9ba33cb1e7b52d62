package frame

import (
	"fmt"
	"image"

	"github.com/bodgit/ytfs/palette"
)

type decoder struct {
	l Layout
	m image.Image
}

func (d *decoder) decode() []palette.Symbol {
	s := make([]palette.Symbol, 0, d.l.Capacity())
	o := d.m.Bounds().Min
	for by := 0; by < d.l.Rows(); by++ {
		for bx := 0; bx < d.l.Columns(); bx++ {
			x0, y0, x1, y1 := d.l.block(bx, by)
			s = append(s, BlockColor(d.m, image.Rect(x0, y0, x1, y1).Add(o)))
		}
	}
	return s
}

// Read classifies every block of m in row-major order. The image must match
// the layout dimensions.
func (l Layout) Read(m image.Image) ([]palette.Symbol, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if b := m.Bounds(); b.Dx() != l.Width || b.Dy() != l.Height {
		return nil, fmt.Errorf("frame: image is %dx%d, expected %dx%d", b.Dx(), b.Dy(), l.Width, l.Height)
	}

	d := decoder{l: l, m: m}

	return d.decode(), nil
}
