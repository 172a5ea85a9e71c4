//go:build unix

package term

import (
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

// QueryFontSize reads the cell pixel size from the tty behind fd.
//
// Terminals that do not implement the pixel fields of TIOCGWINSZ report
// zeros; those, and non-terminal fds, fall back to DefaultFontSize.
func QueryFontSize(fd int) FontSize {
	if !xterm.IsTerminal(fd) {
		return DefaultFontSize
	}

	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return DefaultFontSize
	}
	if ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return DefaultFontSize
	}

	return FontSize{
		Width:  int(ws.Xpixel) / int(ws.Col),
		Height: int(ws.Ypixel) / int(ws.Row),
	}
}
