//go:build !unix

package term

// QueryFontSize falls back to DefaultFontSize on platforms without a
// pixel-size ioctl.
func QueryFontSize(fd int) FontSize {
	return DefaultFontSize
}
