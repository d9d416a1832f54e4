package strategy

import "fmt"

// InvalidInputError is returned when the evaluator cannot work with its input.
type InvalidInputError struct {
	Symbol string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for %s: %s", e.Symbol, e.Reason)
}
