// Command ledgerctl drives a running ledger server over HTTP.
package main

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
