// Package stock implements the stock transfer lifecycle: the validator
// guards gating each state transition and the pure quantity/batch math
// applied by the store when a transition commits.
package stock

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every guard failure wraps exactly one of these so the
// API boundary can map it to a status code with errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrState         = errors.New("transition not allowed in current status")
	ErrAuthorization = errors.New("not authorized")
	ErrCapacity      = errors.New("insufficient stock")
	ErrNotFound      = errors.New("not found")
)

// InsufficientStockError reports the per-line shortfalls that made a
// send fail. The whole send is rolled back; Lines lists one message per
// short line.
type InsufficientStockError struct {
	Lines []string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s", strings.Join(e.Lines, "; "))
}

func (e *InsufficientStockError) Unwrap() error { return ErrCapacity }
