package routing

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch reports a non-numeric operand in a numeric comparison.
	ErrTypeMismatch = errors.New("routing: values must be numbers to compare them")
	// ErrUnknownOperator reports an operator code outside the supported set.
	ErrUnknownOperator = errors.New("routing: unknown condition operator")
	// ErrUnknownConditionType reports a condition type code outside the supported set.
	ErrUnknownConditionType = errors.New("routing: unknown condition type")
)

// FormulaError reports a condition formula that could not be evaluated.
type FormulaError struct {
	Formula string
	Reason  string
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("routing: formula %q: %s", e.Formula, e.Reason)
}

func formulaErr(formula, reason string) error {
	return &FormulaError{Formula: formula, Reason: reason}
}
