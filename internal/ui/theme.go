package ui

import "strings"

// Theme bundles palette, symbols and box borders.
// All rendering helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Busy string
	CornerTL, CornerTR, CornerBL, CornerBR     string
	H, V                                       string
	SymOK, SymFail, SymHeart, SymNoHeart       string
}

var current = classic()

func classic() Theme {
	return Theme{
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Busy: fgYellow,
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymOK: "✔", SymFail: "✖", SymHeart: "♥", SymNoHeart: "♡",
	}
}

func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = Theme{
			Title: fgPink,
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Busy: "\033[93m",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymOK: "✔", SymFail: "✖", SymHeart: "♥", SymNoHeart: "♡",
		}
	case "mono":
		disableColor = true
		current = Theme{
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymOK: "ok", SymFail: "x", SymHeart: "<3", SymNoHeart: "  ",
		}
	default:
		current = classic()
	}
}

func Current() Theme { return current }
