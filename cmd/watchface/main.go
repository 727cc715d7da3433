package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/zgpcy/watchface/cmd/watchface/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %s", errorMessage(err)))
		os.Exit(1)
	}
}

// errorMessage returns err's text with its first letter capitalized
func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "unknown error"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
