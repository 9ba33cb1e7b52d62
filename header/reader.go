package header

import (
	"image"
	"image/color"
)

func sqDiff(x, y uint32) uint32 {
	d := int64(x>>8) - int64(y>>8)
	return uint32(d * d)
}

func distance(c1, c2 color.Color) uint32 {
	r1, g1, b1, _ := c1.RGBA()
	r2, g2, b2, _ := c2.RGBA()
	return sqDiff(r1, r2) + sqDiff(g1, g2) + sqDiff(b1, b2)
}

func isWhite(c color.Color) bool {
	return distance(c, color.White) < distance(c, color.Black)
}

// Read recovers the header from a header frame. Each bit is sampled from the
// centre of its stripe.
func Read(m image.Image) (Header, error) {
	b := m.Bounds()
	width, height := b.Dx(), b.Dy()
	if err := checkDimensions(width, height); err != nil {
		return Header{}, err
	}

	var v [fields]uint32
	for f := range v {
		y := b.Min.Y + (2*f+1)*height/(2*fields)
		for i := 0; i < Bits; i++ {
			x := b.Min.X + i*width/Bits + width/(2*Bits)
			if isWhite(m.At(x, y)) {
				v[f] |= 1 << uint(i)
			}
		}
	}

	return Header{
		BlockWidth:  v[0],
		BlockHeight: v[1],
		Size:        v[2],
	}, nil
}
