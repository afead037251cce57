package cli

import "fmt"

// FlagError reports an invalid command-line flag value.
type FlagError struct {
	Flag    string
	Value   string
	Message string
}

func (e *FlagError) Error() string {
	return fmt.Sprintf("invalid --%s value %q: %s", e.Flag, e.Value, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewFlagError creates a new FlagError.
func NewFlagError(flag, value, message string) *FlagError {
	return &FlagError{
		Flag:    flag,
		Value:   value,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}
