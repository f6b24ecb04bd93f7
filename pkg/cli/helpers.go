package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ClearScreen wipes the terminal. Output that is not a terminal is left alone
// so piped runs keep their history.
func ClearScreen() {
	file, ok := Output.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return
	}

	fmt.Fprint(Output, "\x1b[H\x1b[2J")
}
