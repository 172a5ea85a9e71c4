// Package render turns raw guest framebuffers into terminal cell output.
//
// The guest draws at a fixed 640x400 RGBA resolution. Rendering is split in
// two: NewFrame validates and decodes the raw bytes into an image, and an
// Encoding maps that image onto terminal cells for the active protocol and
// zoom factor.
package render

import (
	"image"

	"github.com/termhost/termhost/errors"
)

// Fixed guest resolution, part of the guest ABI.
const (
	FrameWidth  = 640
	FrameHeight = 400

	frameBytesPerPixel = 4

	// FrameBytes is the exact byte count draw_frame must supply.
	FrameBytes = FrameWidth * FrameHeight * frameBytesPerPixel
)

// NewFrame decodes a raw row-major RGBA8 buffer into an image.
//
// The byte count must match the guest resolution exactly; anything else is a
// guest contract violation and fails without constructing a partial frame.
// The pixel data is copied, so the input may be a transient view into guest
// memory.
func NewFrame(pixels []byte) (*image.RGBA, error) {
	if len(pixels) != FrameBytes {
		return nil, errors.SizeMismatch(len(pixels), FrameBytes)
	}

	return &image.RGBA{
		Pix:    append([]byte(nil), pixels...),
		Stride: FrameWidth * frameBytesPerPixel,
		Rect:   image.Rect(0, 0, FrameWidth, FrameHeight),
	}, nil
}
