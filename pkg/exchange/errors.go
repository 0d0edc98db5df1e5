package exchange

import "errors"

// Invalid-request failures. These are expected outcomes of normal
// operation: the caller counts them and carries on, nothing panics.
var (
	ErrNegativePrice     = errors.New("order price is negative")
	ErrInsufficientFunds = errors.New("insufficient available funds")
	ErrEmptyBook         = errors.New("no resting orders on that side")
	ErrNoTrader          = errors.New("no trader with that id")
)
