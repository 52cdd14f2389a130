package lbm

import "fmt"

// DimensionMismatchError reports a field whose shape disagrees with what the
// lattice or grid requires. It is fatal at construction: no partial engine
// is ever built.
type DimensionMismatchError struct {
	Quantity string
	Expected []int
	Actual   []int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("wrong dimension of %s field: expected %v, but got %v",
		e.Quantity, e.Expected, e.Actual)
}
