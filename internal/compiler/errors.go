package compiler

import "fmt"

// UnsupportedError is returned when a construct cannot be expressed on the
// target database. It is raised while rendering, before any SQL is executed.
type UnsupportedError struct {
	Construct string
	Reason    string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s: %s", e.Construct, e.Reason)
}

// Unsupported returns an *UnsupportedError.
func Unsupported(construct, format string, args ...any) error {
	return &UnsupportedError{Construct: construct, Reason: fmt.Sprintf(format, args...)}
}
