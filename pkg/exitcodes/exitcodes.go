// Package exitcodes provides centralized exit code definitions and error handling
// for the chartci tool. Exit codes are organized in ranges so CI systems can
// categorize failures without parsing log output:
//
//	0:     Success
//	1-9:   Input/Configuration Errors (e.g., missing flags, invalid values)
//	10-19: Chart Processing Errors (e.g., load, lint, template failures)
//	20-29: Publish Errors (e.g., registry auth, push failures)
//	30-39: Runtime Errors (e.g., I/O errors)
package exitcodes

import (
	"errors"
	"fmt"
)

// Exit code constants organized by category
const (
	// Success (0)
	ExitSuccess = 0

	// Input/Configuration Errors (1-9)
	ExitMissingRequiredFlag     = 1 // Required command flag not provided
	ExitInputConfigurationError = 2 // General configuration error
	ExitChartNotFound           = 3 // Chart, values, or config file not found
	ExitValuesInvalid           = 4 // Values document failed schema validation
	ExitPublishConfigInvalid    = 5 // Publish target configuration invalid

	// Chart Processing Errors (10-19)
	ExitChartLoadFailed      = 10 // Failed to load or parse chart
	ExitDependencyBuildError = 11 // Failed to rebuild chart dependencies
	ExitLintFailed           = 12 // Lint reported errors (or warnings in strict mode)
	ExitTemplateFailed       = 13 // Helm template rendering failed
	ExitManifestInvalid      = 14 // Rendered manifests failed structural checks
	ExitPackageFailed        = 15 // Failed to package chart archive

	// Publish Errors (20-29)
	ExitRegistryAuthFailed = 20 // OCI registry login failed
	ExitPushFailed         = 21 // OCI chart push failed
	ExitRefNotPublishable  = 22 // Ref is not a tag ref and publish was not forced

	// Runtime Errors (30-39)
	ExitGeneralRuntimeError = 30 // General runtime/system error
	ExitIOError             = 31 // IO operation error

	// Internal Errors (40-49)
	ExitInternalError = 40 // Internal error in command execution
)

// ExitCodeError wraps an error with an exit code for consistent error handling.
// This type is used throughout the codebase to propagate both error details
// and the appropriate exit code up the call stack.
type ExitCodeError struct {
	Code int   // Exit code to return
	Err  error // Underlying error
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// IsExitCodeError checks if an error is an ExitCodeError and returns its code.
// Returns false and 0 if the error is not an ExitCodeError.
func IsExitCodeError(err error) (int, bool) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// CodeDescriptions maps exit codes to their human-readable descriptions
var CodeDescriptions = map[int]string{
	ExitSuccess:                 "Success",
	ExitMissingRequiredFlag:     "Required command flag not provided",
	ExitInputConfigurationError: "General configuration error",
	ExitChartNotFound:           "Chart, values, or config file not found",
	ExitValuesInvalid:           "Values document failed schema validation",
	ExitPublishConfigInvalid:    "Publish target configuration invalid",
	ExitChartLoadFailed:         "Failed to load or parse chart",
	ExitDependencyBuildError:    "Failed to rebuild chart dependencies",
	ExitLintFailed:              "Lint reported errors",
	ExitTemplateFailed:          "Helm template rendering failed",
	ExitManifestInvalid:         "Rendered manifests failed structural checks",
	ExitPackageFailed:           "Failed to package chart archive",
	ExitRegistryAuthFailed:      "OCI registry login failed",
	ExitPushFailed:              "OCI chart push failed",
	ExitRefNotPublishable:       "Ref is not a tag ref and publish was not forced",
	ExitGeneralRuntimeError:     "General runtime/system error",
	ExitIOError:                 "IO operation error",
	ExitInternalError:           "Internal error in command execution",
}
