package ruleset

import "errors"

var (
	ErrEmptyName     = errors.New("rule name cannot be empty")
	ErrDuplicateRule = errors.New("rule already exists")

	// ErrInvalidBundle is returned for a bundle that does not start with the
	// bundle header or whose content cannot be decoded.
	ErrInvalidBundle = errors.New("invalid rule bundle")
)
