package models

import "errors"

var (
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrInvalidFieldKey  = errors.New("invalid field key")
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidValue     = errors.New("invalid field value")
	ErrUnknownKind      = errors.New("unknown entity kind")
)
