package ui

import "github.com/fatih/color"

type ColorFn func(format string, a ...interface{}) string

type TerminalColors struct {
	Normal ColorFn
	Red    ColorFn
	Yellow ColorFn
	Green  ColorFn
	Cyan   ColorFn
	Blue   ColorFn
	Bold   ColorFn
	Dim    ColorFn
}

var Colors = TerminalColors{
	Normal: color.New().SprintfFunc(),
	Red:    color.New(color.FgRed, color.Bold).SprintfFunc(),
	Yellow: color.New(color.FgYellow).SprintfFunc(),
	Green:  color.New(color.FgGreen).SprintfFunc(),
	Cyan:   color.New(color.FgCyan, color.Bold).SprintfFunc(),
	Blue:   color.New(color.FgBlue).SprintfFunc(),
	Bold:   color.New(color.Bold).SprintfFunc(),
	Dim:    color.New(color.Faint).SprintfFunc(),
}
