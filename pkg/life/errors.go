package life

import "errors"

var (
	// ErrInvalidRule reports a malformed birth or death count list.
	ErrInvalidRule = errors.New("life: invalid rule")
	// ErrInvalidArgument reports a bad shape, tick count or similar input.
	ErrInvalidArgument = errors.New("life: invalid argument")
)
