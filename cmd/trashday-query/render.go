package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"trashday/internal/services"
)

const (
	defaultWidth = 80
	minBarWidth  = 10
	blankLabel   = "(blank)"
)

// terminalWidth reports the width of f when it is a terminal.
func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// renderBars prints one horizontal bar per category, scaled so the
// largest count fills the space left after the labels.
func renderBars(out io.Writer, s *services.Summary, width int) error {
	labelWidth := 0
	countWidth := 1
	maxCount := 0
	for _, c := range s.Counts {
		labelWidth = max(labelWidth, utf8.RuneCountInString(label(c.Value)))
		countWidth = max(countWidth, len(fmt.Sprint(c.Count)))
		maxCount = max(maxCount, c.Count)
	}

	if _, err := fmt.Fprintf(out, "%d addresses, counted by %s\n", s.Total, s.Column); err != nil {
		return err
	}
	if len(s.Counts) == 0 {
		_, err := fmt.Fprintln(out, "no categories")
		return err
	}

	barWidth := max(width-labelWidth-countWidth-3, minBarWidth)
	for _, c := range s.Counts {
		n := 0
		if maxCount > 0 {
			n = c.Count * barWidth / maxCount
		}
		if c.Count > 0 && n == 0 {
			n = 1
		}
		l := label(c.Value)
		pad := strings.Repeat(" ", labelWidth-utf8.RuneCountInString(l))
		if _, err := fmt.Fprintf(out, "%s%s %*d %s\n", l, pad, countWidth, c.Count, strings.Repeat("#", n)); err != nil {
			return err
		}
	}
	return nil
}

func label(v string) string {
	if v == "" {
		return blankLabel
	}
	return v
}
