package ledger

import "fmt"

// PostingError reports where posting stopped. Records before Committed were
// submitted and stay in the ledger; nothing is rolled back.
type PostingError struct {
	Index     int   // record being posted when the step failed
	State     State // state the failing step was moving to
	Committed int   // records submitted before the failure
	Err       error
}

func (e *PostingError) Error() string {
	return fmt.Sprintf("posting record %d failed entering %s (%d committed): %v",
		e.Index, e.State, e.Committed, e.Err)
}

func (e *PostingError) Unwrap() error {
	return e.Err
}
