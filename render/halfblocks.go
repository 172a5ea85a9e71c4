package render

import (
	"image"
	"strings"

	"github.com/termhost/termhost/term"
)

// Halfblocks renders two vertically stacked pixel regions per cell using the
// upper-half-block glyph: foreground carries the top region, background the
// bottom. This is the densest encoding that works on any color terminal.
type Halfblocks struct{}

func (Halfblocks) Name() string { return "Halfblocks" }

func (Halfblocks) Render(img *image.RGBA, font term.FontSize, zoom int) string {
	cw, ch := cellGeometry(font, zoom)
	cols, rows := gridSize(img, cw, ch)

	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		y0 := row * ch
		yMid := y0 + (ch+1)/2
		y1 := y0 + ch
		for col := 0; col < cols; col++ {
			x0 := col * cw
			x1 := x0 + cw

			tr, tg, tb := averageRGB(img, x0, y0, x1, yMid)
			br, bg, bb := averageRGB(img, x0, yMid, x1, y1)

			style := styler.NewStyle().
				Foreground(hexColor(tr, tg, tb)).
				Background(hexColor(br, bg, bb))
			b.WriteString(style.Render("▀"))
		}
	}
	return b.String()
}
