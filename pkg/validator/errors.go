package validator

import "errors"

var (
	// ErrInvalidJSON is returned when a request body is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON body")

	// ErrEmptyRuleSet is returned when a rule set is built without fields.
	ErrEmptyRuleSet = errors.New("rule set has no fields")
)
