package ledger

// State is a position of the posting state machine.
type State int

const (
	Idle State = iota
	AuthStarted
	AuthComplete
	EntryOpened
	CategorySelected
	FieldsFilled
	AccountResolved
	Submitted
	Closed
	LoggedOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AuthStarted:
		return "auth_started"
	case AuthComplete:
		return "auth_complete"
	case EntryOpened:
		return "entry_opened"
	case CategorySelected:
		return "category_selected"
	case FieldsFilled:
		return "fields_filled"
	case AccountResolved:
		return "account_resolved"
	case Submitted:
		return "submitted"
	case Closed:
		return "closed"
	case LoggedOut:
		return "logged_out"
	default:
		return "unknown"
	}
}
