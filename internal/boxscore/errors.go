package boxscore

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrStructure = errors.New("box score structure")
	ErrFormat    = errors.New("box score format")
	ErrLookup    = errors.New("box score lookup")

	errMissingColumn = errors.New("column missing")
)

// StructuralParseError reports a page whose table layout is not usable:
// wrong table count, empty tables, missing columns or short rows.
type StructuralParseError struct {
	Msg string
}

func (e *StructuralParseError) Error() string {
	return "malformed box score: " + e.Msg
}

func (e *StructuralParseError) Is(target error) bool {
	return target == ErrStructure
}

func structuralf(format string, args ...interface{}) error {
	return &StructuralParseError{Msg: fmt.Sprintf(format, args...)}
}

// FormatError reports a cell that could not be decoded, such as a
// non-numeric stat or an innings-pitched value that is not "N.T".
type FormatError struct {
	Player string
	Code   string
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("bad %s value %q", e.Code, e.Value)
	if e.Player != "" {
		msg += " for " + e.Player
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// LookupError reports a team label that is not one of the two teams in the
// line score.
type LookupError struct {
	Team string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("team %q is not in this game", e.Team)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}
