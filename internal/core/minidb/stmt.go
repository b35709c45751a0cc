package minidb

type StatementKind int

const (
	Insert StatementKind = iota + 1
	Select
)

func (s StatementKind) String() string {
	switch s {
	case Insert:
		return "INSERT"
	case Select:
		return "SELECT"
	default:
		return "UNKNOWN"
	}
}

// Statement is a prepared command ready to be executed against the table,
// Row is only set for inserts.
type Statement struct {
	Kind StatementKind
	Row  Row
}

type StatementResult struct {
	Kind         StatementKind
	RowsAffected int
	Rows         []Row
}
