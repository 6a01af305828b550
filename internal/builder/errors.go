package builder

import "errors"

// ErrOutOfRange signals a positional index outside the files or variables
// sequence. It indicates a caller bug, unlike validation findings, which
// describe user input and are returned as data.
var ErrOutOfRange = errors.New("index out of range")

// ErrUnknownAction signals a reducer action with an unrecognized op.
var ErrUnknownAction = errors.New("unknown action")

// ErrMissingPayload signals a reducer action without the payload its op
// requires.
var ErrMissingPayload = errors.New("action payload missing")
