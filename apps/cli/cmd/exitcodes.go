package cmd

// Exit codes for the accord CLI
const (
	// ExitSuccess indicates all checks passed
	ExitSuccess = 0

	// ExitCheckFailure indicates one or more checks failed
	ExitCheckFailure = 1

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64

	// ExitSpecError indicates a spec or input document error
	ExitSpecError = 65
)
