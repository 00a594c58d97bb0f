package ledger

// Outcome tells a caller what a mutation did when it returned no error.
type Outcome int

const (
	// Applied means the collection list was rewritten.
	Applied Outcome = iota + 1
	// Unchanged means the target exists but already had the requested state,
	// so nothing was written.
	Unchanged
	// NotFound means the target collection (or, for SetVariants, the card
	// inside it) does not exist. Nothing was written.
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Unchanged:
		return "unchanged"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}
