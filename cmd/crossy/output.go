package main

import "github.com/fatih/color"

// Colors for plain terminal reports.
var (
	colorTitle  = color.New(color.FgGreen, color.Bold)
	colorHeader = color.New(color.FgHiBlack)
	colorScore  = color.New(color.FgYellow)
	colorGood   = color.New(color.FgGreen)
	colorBad    = color.New(color.FgRed)
	colorMuted  = color.New(color.FgHiBlack)
)
