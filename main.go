// Package main is the entry point for the Bizdesk CLI application.
// It signs users in against the Bizdesk business API and manages customers,
// items and orders from the terminal.
package main

import (
	"bizdesk/cli/cmd"
)

func main() {
	cmd.Execute()
}
