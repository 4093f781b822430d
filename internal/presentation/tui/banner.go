package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the prr banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _ __  _ __ _ __ ", "#818cf8"},
		{" | '_ \\| '__| '__|", "#a78bfa"},
		{" | |_) | |  | |   ", "#c084fc"},
		{" | .__/|_|  |_|   ", "#e879f9"},
		{" |_|              ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String(" billing network "+version).Faint())
	fmt.Fprintln(w)
}
