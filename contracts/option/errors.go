package option

import (
	"fmt"

	"github.com/calldera/callop/ledger/coin"
	"golang.org/x/xerrors"
)

// ErrNotFound is returned when no option record exists in the store.
var ErrNotFound = xerrors.New("no option found")

// ErrUnauthorized is returned when the transaction author is not allowed
// to run the command.
var ErrUnauthorized = xerrors.New("unauthorized")

// ExpiredError is returned when a command requires a live option but the
// current height has reached the expiry.
type ExpiredError struct {
	Expired uint64
}

func (e ExpiredError) Error() string {
	return fmt.Sprintf("option expired (expired at height %d)", e.Expired)
}

// NotExpiredError is returned when a command requires an expired option
// but the current height is still below the expiry.
type NotExpiredError struct {
	Expires uint64
}

func (e NotExpiredError) Error() string {
	return fmt.Sprintf("option not expired (expires at height %d)", e.Expires)
}

// MismatchError is returned when the funds attached to an exercise do not
// match the counter offer of the option.
type MismatchError struct {
	Offer        coin.Coins
	CounterOffer coin.Coins
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("counter offer mismatch: offered [%v], expected [%v]",
		e.Offer, e.CounterOffer)
}
