// Package term answers the one capability question the renderer needs from
// the terminal: how many pixels one character cell covers.
package term

// FontSize is the pixel size of one terminal character cell.
type FontSize struct {
	Width  int
	Height int
}

// DefaultFontSize is used when the terminal does not report pixel
// dimensions.
var DefaultFontSize = FontSize{Width: 8, Height: 16}
