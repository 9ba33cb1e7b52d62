package frame

import (
	"image"
	"image/color"
	"sort"

	"github.com/bodgit/ytfs/palette"
	"github.com/ericpauley/go-quantize/quantize"
)

// Drift describes how far a representative color of a frame has moved from
// the palette.
type Drift struct {
	Color    color.Color
	Symbol   palette.Symbol
	Distance int
}

type byDistance []Drift

func (d byDistance) Len() int {
	return len(d)
}

func (d byDistance) Swap(i, j int) {
	d[i], d[j] = d[j], d[i]
}

func (d byDistance) Less(i, j int) bool {
	if d[i].Distance == d[j].Distance {
		return d[i].Symbol < d[j].Symbol
	}
	return d[i].Distance > d[j].Distance
}

// Inspect reduces m to at most n representative colors using a median cut
// and reports the nearest palette symbol for each, worst first. Large
// distances suggest the frame has been degraded beyond the point where
// blocks can be reliably classified.
func Inspect(m image.Image, n int) []Drift {
	if n <= 0 {
		n = palette.Size
	}

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, n), m)

	d := make([]Drift, 0, len(p))
	for _, c := range p {
		s := palette.Nearest(c)
		d = append(d, Drift{
			Color:    c,
			Symbol:   s,
			Distance: palette.Distance(c, s),
		})
	}

	sort.Sort(byDistance(d))

	return d
}
