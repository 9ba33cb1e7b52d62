/*
Package header implements the header frame that precedes the data frames.

The frame is split into three horizontal bands holding, in order, the block
width, the block height and the payload size. Each band is split into 32
vertical stripes, one per bit with the least significant bit on the left. A
set bit is drawn white and a clear bit black.
*/
package header

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Bits is the number of stripes in each band
	Bits   = 32
	fields = 3

	// Size is the length in bytes of a marshalled Header
	Size = fields * 4
)

// ErrBadDimensions is returned when a frame cannot be split into bands and
// stripes.
var ErrBadDimensions = errors.New("header: frame width must be a multiple of 32 and height at least 3")

// Header is the metadata carried by the header frame. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Header struct {
	BlockWidth  uint32
	BlockHeight uint32
	Size        uint32
}

func (h Header) fields() [fields]uint32 {
	return [fields]uint32{h.BlockWidth, h.BlockHeight, h.Size}
}

func checkDimensions(width, height int) error {
	if width <= 0 || width%Bits != 0 || height < fields {
		return ErrBadDimensions
	}
	return nil
}

// Validate checks the block dimensions evenly divide a frame of the given
// width and height.
func (h Header) Validate(width, height int) error {
	if h.BlockWidth == 0 || h.BlockHeight == 0 {
		return fmt.Errorf("header: invalid block size %dx%d", h.BlockWidth, h.BlockHeight)
	}
	if uint64(width)%uint64(h.BlockWidth) != 0 || uint64(height)%uint64(h.BlockHeight) != 0 {
		return fmt.Errorf("header: block size %dx%d does not divide frame size %dx%d", h.BlockWidth, h.BlockHeight, width, height)
	}
	return nil
}

// MarshalBinary encodes the header as three little-endian 32-bit values
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, Size)
	for i, v := range h.fields() {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	return b, nil
}

// UnmarshalBinary decodes the header from binary form
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return fmt.Errorf("header: expected %d bytes, got %d", Size, len(b))
	}
	h.BlockWidth = binary.LittleEndian.Uint32(b[0:])
	h.BlockHeight = binary.LittleEndian.Uint32(b[4:])
	h.Size = binary.LittleEndian.Uint32(b[8:])
	return nil
}
