// Package debug provides simple conditional debugging output.
//
// Debug output goes to stderr with a fixed prefix so it can be filtered out
// of captured command output. The enabled state is global and is normally set
// once by the root command from the --debug flag or the CHARTCI_DEBUG
// environment variable.
package debug

import (
	"fmt"
	"os"
	"strings"
)

var (
	// Enabled indicates whether debug logging is enabled
	Enabled bool

	// debugPrefix is prepended to all debug messages
	debugPrefix = "[DEBUG] "
)

// Init initializes the debug package with the given enabled state.
func Init(enabled bool) {
	Enabled = enabled
}

// Printf prints a debug message if debug logging is enabled.
func Printf(format string, args ...interface{}) {
	if Enabled {
		fmt.Fprintf(os.Stderr, debugPrefix+format+"\n", args...)
	}
}

// Println prints a debug message if debug logging is enabled.
func Println(args ...interface{}) {
	if Enabled {
		fmt.Fprintln(os.Stderr, debugPrefix+fmt.Sprint(args...))
	}
}

// FunctionEnter logs entry into a function if debug logging is enabled.
func FunctionEnter(funcName string) {
	if Enabled {
		fmt.Fprintf(os.Stderr, "%s→ Entering %s\n", debugPrefix, funcName)
	}
}

// FunctionExit logs exit from a function if debug logging is enabled.
func FunctionExit(funcName string) {
	if Enabled {
		fmt.Fprintf(os.Stderr, "%s← Exiting %s\n", debugPrefix, funcName)
	}
}

// DumpValue dumps a labeled value if debug logging is enabled.
func DumpValue(label string, value interface{}) {
	if Enabled {
		fmt.Fprintf(os.Stderr, "%s%s: %+v\n", debugPrefix, label, value)
	}
}

// SetPrefix sets a custom prefix for debug messages.
func SetPrefix(prefix string) {
	if !strings.HasSuffix(prefix, " ") {
		prefix += " "
	}
	debugPrefix = prefix
}
