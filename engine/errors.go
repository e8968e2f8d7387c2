package engine

import "fmt"

// ErrorKind enumerates the validation failures the engine can report.
// Callers branch on the kind rather than matching error text.
type ErrorKind uint8

const (
	ErrInvalidCardNotation ErrorKind = iota + 1
	ErrDuplicateCard
	ErrInvalidPlayerCount
	ErrInvalidBoardSize
	ErrInvalidHoleCards
	ErrInsufficientCards
	ErrInvalidIterations
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidCardNotation:
		return "invalid card notation"
	case ErrDuplicateCard:
		return "duplicate card"
	case ErrInvalidPlayerCount:
		return "invalid player count"
	case ErrInvalidBoardSize:
		return "invalid board size"
	case ErrInvalidHoleCards:
		return "invalid hole cards"
	case ErrInsufficientCards:
		return "insufficient cards"
	case ErrInvalidIterations:
		return "invalid iteration count"
	default:
		return fmt.Sprintf("error(%d)", uint8(k))
	}
}

// ValidationError reports a rejected input before any simulation work
// begins. Value holds the offending input rendered as text so the caller
// can report exactly what to fix.
type ValidationError struct {
	Kind  ErrorKind
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Value)
}

// Is makes errors.Is match two ValidationErrors of the same kind,
// ignoring the offending value.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}
