package core

// Color is a foreground color for a screen cell.
type Color uint8

// Predefined colors. Games pick them by role; the host maps them to
// terminal codes with ANSI.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	colorCount
)

// ansiCodes holds the 256-color code per Color; ColorDefault has none.
var ansiCodes = [colorCount]string{
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorYellow:        "3",
	ColorBlue:          "4",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorBrightRed:     "9",
	ColorBrightGreen:   "10",
	ColorBrightYellow:  "11",
	ColorBrightBlue:    "12",
	ColorBrightMagenta: "13",
	ColorBrightCyan:    "14",
	ColorBrightWhite:   "15",
	ColorOrange:        "208",
	ColorGray:          "245",
}

// ANSI returns the 256-color code for c, or "" for the terminal default
// and unknown values.
func (c Color) ANSI() string {
	if c >= colorCount {
		return ""
	}
	return ansiCodes[c]
}

// Colors returns every defined color, default first.
func Colors() []Color {
	out := make([]Color, colorCount)
	for i := range out {
		out[i] = Color(i)
	}
	return out
}
