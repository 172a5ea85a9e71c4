package render

import (
	"fmt"
	"image"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/termhost/termhost/term"
)

// Encoding maps a decoded frame onto terminal cells.
//
// font is the terminal's cell pixel size and zoom attenuates it: an encoder
// targeting (fw, fh) pixels per cell renders at (fw/z, fh/z) for zoom z, so
// higher zoom spends more cells on the same fixed guest resolution.
type Encoding interface {
	Name() string
	Render(img *image.RGBA, font term.FontSize, zoom int) string
}

// Cycle is the closed set of selectable encodings with a deterministic
// "next" order.
type Cycle struct {
	encodings []Encoding
	idx       int
}

// DefaultCycle returns the supported encodings in cycling order.
func DefaultCycle() *Cycle {
	return NewCycle(Halfblocks{}, Blocks{}, ASCII{})
}

func NewCycle(encodings ...Encoding) *Cycle {
	return &Cycle{encodings: encodings}
}

// Current returns the active encoding.
func (c *Cycle) Current() Encoding {
	return c.encodings[c.idx]
}

// Next advances to the next encoding, wrapping around.
func (c *Cycle) Next() {
	c.idx = (c.idx + 1) % len(c.encodings)
}

// Select activates the encoding with the given name. Returns false if no
// encoding matches; the selection is unchanged in that case.
func (c *Cycle) Select(name string) bool {
	for i, e := range c.encodings {
		if e.Name() == name {
			c.idx = i
			return true
		}
	}
	return false
}

// styler renders cell styles with a fixed truecolor profile so encoder
// output does not depend on ambient terminal detection. Bubble Tea
// interprets the sequences when the view is drawn.
var styler = newStyler()

func newStyler() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

// cellGeometry returns the pixel extent one cell covers at the given zoom,
// clamped to at least one pixel per cell.
func cellGeometry(font term.FontSize, zoom int) (cw, ch int) {
	if zoom < 1 {
		zoom = 1
	}
	cw = font.Width / zoom
	ch = font.Height / zoom
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	return cw, ch
}

// gridSize returns how many cells the image occupies at the given cell
// extent, rounding up so edge pixels are never dropped.
func gridSize(img *image.RGBA, cw, ch int) (cols, rows int) {
	b := img.Bounds()
	cols = (b.Dx() + cw - 1) / cw
	rows = (b.Dy() + ch - 1) / ch
	return cols, rows
}

// averageRGB averages the pixels of the given region, clamped to the image
// bounds. Empty regions average to black.
func averageRGB(img *image.RGBA, x0, y0, x1, y1 int) (r, g, b uint32) {
	bounds := img.Bounds()
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	if x1 > bounds.Max.X {
		x1 = bounds.Max.X
	}
	if y1 > bounds.Max.Y {
		y1 = bounds.Max.Y
	}
	if x0 >= x1 || y0 >= y1 {
		return 0, 0, 0
	}

	var sumR, sumG, sumB, n uint32
	for y := y0; y < y1; y++ {
		i := img.PixOffset(x0, y)
		for x := x0; x < x1; x++ {
			sumR += uint32(img.Pix[i])
			sumG += uint32(img.Pix[i+1])
			sumB += uint32(img.Pix[i+2])
			i += 4
			n++
		}
	}
	return sumR / n, sumG / n, sumB / n
}

func hexColor(r, g, b uint32) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}
