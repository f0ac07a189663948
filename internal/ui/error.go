package ui

import (
	"fmt"
	"os"

	"github.com/aptpac/aptpac/clierror"
)

// ErrorExit prints err and terminates with a non-zero exit code. Coded
// errors render their human message and hint; everything else prints as-is.
func ErrorExit(err error) {
	StopSpinner()

	ce, ok := clierror.As(err)
	if !ok {
		Fatalf("Error: %s", err)
	}

	fmt.Println(Colors.Red("E: %s", ce.Human()))
	if hint := ce.Hint(); hint != "" {
		fmt.Println(Colors.Yellow("%s", hint))
	}

	os.Exit(1)
}
