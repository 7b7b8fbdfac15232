package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by extraction and posting. None of them are retried;
// each one aborts the run.
var (
	// ErrAuthentication means a sign-in page did not behave as expected,
	// usually because of bad credentials.
	ErrAuthentication = errors.New("authentication failed")

	// ErrDateParse means a history row carried a malformed date.
	ErrDateParse = errors.New("malformed date")

	// ErrAmountParse means an amount that must be numeric was not.
	ErrAmountParse = errors.New("malformed amount")

	// ErrAccountNotFound means no ledger account option matched the requested name.
	ErrAccountNotFound = errors.New("account not found")
)

// AccountNotFoundError carries the account name that could not be resolved.
type AccountNotFoundError struct {
	Name string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account %q is not found", e.Name)
}

// Is reports ErrAccountNotFound as a match so callers can use errors.Is.
func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}
