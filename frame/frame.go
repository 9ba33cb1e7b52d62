/*
Package frame lays palette symbols out as solid blocks in fixed size frames
and reads them back.

A frame of Width by Height pixels is divided into a grid of BlockWidth by
BlockHeight blocks. Symbols fill the grid in row-major order, one symbol per
block, and any blocks left over on the final frame are filled with Padding.
However small the payload, at least MinFrames frames are produced.
*/
package frame

import (
	"errors"
	"fmt"

	"github.com/bodgit/ytfs/palette"
)

const (
	// MinFrames is the minimum number of data frames
	MinFrames = 25

	// DefaultWidth is the default frame width
	DefaultWidth = 256
	// DefaultHeight is the default frame height
	DefaultHeight = 144
	// DefaultBlockWidth is the default block width
	DefaultBlockWidth = 32
	// DefaultBlockHeight is the default block height
	DefaultBlockHeight = 36
)

// Padding is the symbol used for blocks beyond the end of the data.
const Padding palette.Symbol = 0

// ErrBadLayout is returned by Layout.Validate and wraps the reason.
var ErrBadLayout = errors.New("frame: invalid layout")

// Layout describes the frame and block geometry.
type Layout struct {
	Width       int
	Height      int
	BlockWidth  int
	BlockHeight int
}

// DefaultLayout returns the 256x144 layout with 32x36 blocks.
func DefaultLayout() Layout {
	return Layout{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		BlockWidth:  DefaultBlockWidth,
		BlockHeight: DefaultBlockHeight,
	}
}

// Validate checks the block dimensions are positive and evenly divide the
// frame.
func (l Layout) Validate() error {
	switch {
	case l.Width <= 0 || l.Height <= 0:
		return fmt.Errorf("%w: frame size %dx%d", ErrBadLayout, l.Width, l.Height)
	case l.BlockWidth <= 0 || l.Width%l.BlockWidth != 0:
		return fmt.Errorf("%w: block width %d must be greater than 0 and a factor of %d", ErrBadLayout, l.BlockWidth, l.Width)
	case l.BlockHeight <= 0 || l.Height%l.BlockHeight != 0:
		return fmt.Errorf("%w: block height %d must be greater than 0 and a factor of %d", ErrBadLayout, l.BlockHeight, l.Height)
	}
	return nil
}

// Columns returns the number of blocks across a frame
func (l Layout) Columns() int {
	return l.Width / l.BlockWidth
}

// Rows returns the number of blocks down a frame
func (l Layout) Rows() int {
	return l.Height / l.BlockHeight
}

// Capacity returns the number of symbols held by each frame
func (l Layout) Capacity() int {
	return l.Columns() * l.Rows()
}

// Frames returns the number of data frames needed for n symbols.
func (l Layout) Frames(n int) int {
	c := l.Capacity()
	if f := (n + c - 1) / c; f > MinFrames {
		return f
	}
	return MinFrames
}

// block returns the pixel rectangle of the block at column x, row y
func (l Layout) block(x, y int) (int, int, int, int) {
	return x * l.BlockWidth, y * l.BlockHeight, (x + 1) * l.BlockWidth, (y + 1) * l.BlockHeight
}
