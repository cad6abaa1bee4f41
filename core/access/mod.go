// Package access defines the identities of the accounts interacting with
// the ledger.
//
// Authentication is performed by the runtime before a transaction reaches
// the execution service, so an identity here is only the printable
// account address. The validation rule is used again whenever an address
// must be derived from free text, for instance the recipient of an option
// transfer.
package access

import (
	"golang.org/x/xerrors"
)

const (
	minAddressLen = 3
	maxAddressLen = 64
)

// Address is the printable identifier of a ledger account.
//
// - implements fmt.Stringer
type Address string

// NewAddress returns the address of the raw string if it is well formed,
// otherwise it returns an error. An address is 3 to 64 lowercase
// alphanumeric characters and starts with a letter.
func NewAddress(raw string) (Address, error) {
	if len(raw) < minAddressLen || len(raw) > maxAddressLen {
		return "", xerrors.Errorf("invalid address length %d: expect %d to %d characters",
			len(raw), minAddressLen, maxAddressLen)
	}

	for i, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return "", xerrors.Errorf("invalid address '%s': must start with a letter", raw)
			}
		default:
			return "", xerrors.Errorf("invalid address '%s': unexpected character '%c'", raw, r)
		}
	}

	return Address(raw), nil
}

// String implements fmt.Stringer. It returns the raw address.
func (a Address) String() string {
	return string(a)
}
