package service

import "fmt"

// PartialError reports a multi-step write that succeeded partially and
// could not be rolled back. It names what survived so the caller can
// identify (and clean up) the intermediate state.
type PartialError struct {
	EmployeeID        string
	CreatedContactIDs []string
	Err               error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("partial failure for employee %s (contacts: %v): %v",
		e.EmployeeID, e.CreatedContactIDs, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
