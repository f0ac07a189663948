// Package ui is the opinionated terminal presentation layer for apt-pac.
// It is internal on purpose: nothing here is a stable API.
package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SetStatus shows a transient status line with a spinner.
func SetStatus(status string) {
	StartSpinner(status)
}

// ClearStatus removes the current status line.
func ClearStatus() {
	StopSpinner()
}

// Statusln prints an apt-style progress line ("Reading state information... Done").
func Statusln(msg string) {
	fmt.Println(msg)
}

// Infof prints an informational line.
func Infof(format string, a ...interface{}) {
	fmt.Println(Colors.Normal(format, a...))
}

// Warnf prints a warning line.
func Warnf(format string, a ...interface{}) {
	fmt.Println(Colors.Yellow(format, a...))
}

// Successf prints a success line.
func Successf(format string, a ...interface{}) {
	fmt.Println(Colors.Green(format, a...))
}

// Fatalf prints an error line and terminates with a non-zero exit code.
func Fatalf(format string, a ...interface{}) {
	StopSpinner()
	fmt.Println(Colors.Red(format, a...))
	os.Exit(1)
}

// Confirm asks an apt-style yes/no question. Empty input means yes, matching
// apt's "[Y/n]" default.
func Confirm(prompt string) bool {
	fmt.Printf("%s [Y/n] ", prompt)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || strings.HasPrefix(answer, "y")
}
