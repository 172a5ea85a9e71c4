package render

import (
	"image"
	"strings"

	"github.com/termhost/termhost/term"
)

// Blocks renders one averaged pixel region per cell as a solid full block.
// Coarser than Halfblocks but survives fonts with broken half-block glyphs.
type Blocks struct{}

func (Blocks) Name() string { return "Blocks" }

func (Blocks) Render(img *image.RGBA, font term.FontSize, zoom int) string {
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
			b.WriteString(styler.NewStyle().Foreground(hexColor(r, g, bl)).Render("█"))
		}
	}
	return b.String()
}
