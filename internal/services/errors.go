package services

import "errors"

// Error kinds surfaced by the engine. Handlers map these onto HTTP status
// codes with errors.Is; services add context via fmt.Errorf("%w: ...").
var (
	// ErrNotFound means a directly referenced entity id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrRelation means a foreign-key style reference is dangling, e.g. a
	// mark submission naming a team that does not exist.
	ErrRelation = errors.New("related entity not found")

	// ErrDuplicateMark means a mark already exists for the
	// (team, jury, session) triple.
	ErrDuplicateMark = errors.New("mark already exists for this team, jury and session")

	// ErrLocked means a write was attempted on a locked mark.
	ErrLocked = errors.New("mark is locked")

	// ErrInvalidState means a lifecycle transition was attempted from a
	// state that forbids it.
	ErrInvalidState = errors.New("invalid session state")

	// ErrValidation means malformed input or a score out of bounds.
	ErrValidation = errors.New("validation failed")
)
