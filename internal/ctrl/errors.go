package ctrl

import (
	"errors"
	"fmt"
)

var ErrItemNotFound = errors.New("invalid item id")

// InsufficientFundsError is returned by Purchase when the buyer cannot
// afford the item. Required carries the item price for display.
type InsufficientFundsError struct {
	Required int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: %d tokens required", e.Required)
}

// InsufficientBalanceError is returned by Revoke when the target holds fewer
// tokens than the amount being revoked. Current carries the target's balance.
type InsufficientBalanceError struct {
	Current int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: only %d tokens held", e.Current)
}
