package external

import (
	"fmt"

	"github.com/kjannette/newsimpact-backend/internal/models"
)

// LookupError is a classified provider failure. It is a normal outcome of a
// lookup, not a fault: callers turn it into a PriceLookupResult.
type LookupError struct {
	Kind   models.ErrorKind
	Symbol string
	Err    error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("price lookup %s: %s: %v", e.Symbol, e.Kind, e.Err)
	}
	return fmt.Sprintf("price lookup %s: %s", e.Symbol, e.Kind)
}

func (e *LookupError) Unwrap() error { return e.Err }

func classified(kind models.ErrorKind, symbol string, err error) *LookupError {
	return &LookupError{Kind: kind, Symbol: symbol, Err: err}
}
