package poststore

import "errors"

var ErrValidation = errors.New("post validation failed")

var ErrTitleRequired = wrapValidation("title is required")
var ErrDescriptionRequired = wrapValidation("description is required")
var ErrFullContentRequired = wrapValidation("full content is required")

var ErrPersist = errors.New("post store: persist failed")

var ErrInvalidTheme = errors.New("theme must be one of light, dark, system")

var ErrImageDataEmpty = errors.New("image data is empty")

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Unwrap() error { return ErrValidation }

func wrapValidation(msg string) error {
	return &validationError{msg: msg}
}
