package render

import (
	"image"
	"strings"

	"github.com/termhost/termhost/term"
)

// asciiRamp orders glyphs by increasing ink coverage.
const asciiRamp = " .:-=+*#%@"

// ASCII renders one region per cell as a luminance-ramp character with the
// region's average color. The lowest common denominator encoding.
type ASCII struct{}

func (ASCII) Name() string { return "ASCII" }

func (ASCII) Render(img *image.RGBA, font term.FontSize, zoom int) string {
	cw, ch := cellGeometry(font, zoom)
	cols, rows := gridSize(img, cw, ch)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		y0 := row * ch
		for col := 0; col < cols; col++ {
			x0 := col * cw
			r, g, bl := averageRGB(img, x0, y0, x0+cw, y0+ch)

			// Rec. 709 luma, scaled into the ramp.
			luma := (2126*r + 7152*g + 722*bl) / 10000
			idx := int(luma) * len(asciiRamp) / 256
			if idx >= len(asciiRamp) {
				idx = len(asciiRamp) - 1
			}

			b.WriteString(styler.NewStyle().
				Foreground(hexColor(r, g, bl)).
				Render(string(asciiRamp[idx])))
		}
	}
	return b.String()
}
