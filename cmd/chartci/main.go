package main

import (
	"os"

	"github.com/chartci/chartci/pkg/debug"
	"github.com/chartci/chartci/pkg/log"
)

// main is the entry point of the application. It runs the root command and
// exits with the code carried by the command's error, if any.
func main() {
	if os.Getenv("CHARTCI_DEBUG") != "" {
		debug.Init(true)
	}

	if err := Execute(); err != nil {
		log.Error("Command failed", "error", err)
		os.Exit(exitCodeForError(err))
	}
}
