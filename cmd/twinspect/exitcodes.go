package main

// Exit codes used by all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (invalid document, unresolved references)
	ExitDataError   = 3 // Dataset error (missing folder, integrity mismatch)
)
