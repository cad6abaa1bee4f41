// Package coin defines the lists of fungible assets attached to the
// transactions and stored in the ledger.
//
// A list carries at most one coin per denomination. The textual form of a
// coin is the amount followed by the denomination, like "40eth", and a
// list is written with commas: "40eth,1btc".
package coin

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// Coin is an amount of a single denomination.
type Coin struct {
	Denom  string
	Amount uint64
}

// New creates a coin.
func New(amount uint64, denom string) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// String implements fmt.Stringer. It returns the textual form of the
// coin.
func (c Coin) String() string {
	return strconv.FormatUint(c.Amount, 10) + c.Denom
}

// Coins is an ordered list of coins.
type Coins []Coin

// Validate returns an error when a denomination is malformed or appears
// more than once.
func (c Coins) Validate() error {
	seen := make(map[string]struct{})

	for _, coin := range c {
		if len(coin.Denom) == 0 {
			return xerrors.New("empty denomination")
		}

		for _, r := range coin.Denom {
			if r < 'a' || r > 'z' {
				return xerrors.Errorf("invalid denomination '%s'", coin.Denom)
			}
		}

		_, found := seen[coin.Denom]
		if found {
			return xerrors.Errorf("duplicated denomination '%s'", coin.Denom)
		}

		seen[coin.Denom] = struct{}{}
	}

	return nil
}

// Equal returns true when both lists carry the same set of (denomination,
// amount) pairs, irrespective of their order.
func (c Coins) Equal(other Coins) bool {
	if len(c) != len(other) {
		return false
	}

	a := c.sorted()
	b := other.sorted()

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// Add returns a new list where the amounts of the other list have been
// added, denomination by denomination. The result is sorted. It returns an
// error when an amount would overflow.
func (c Coins) Add(other Coins) (Coins, error) {
	amounts := make(map[string]uint64)

	for _, coin := range c {
		amounts[coin.Denom] += coin.Amount
	}

	for _, coin := range other {
		sum := amounts[coin.Denom] + coin.Amount
		if sum < amounts[coin.Denom] {
			return nil, xerrors.Errorf("overflow on %s: %d + %d",
				coin.Denom, amounts[coin.Denom], coin.Amount)
		}

		amounts[coin.Denom] = sum
	}

	res := make(Coins, 0, len(amounts))
	for denom, amount := range amounts {
		res = append(res, New(amount, denom))
	}

	return res.sorted(), nil
}

// Sub returns a new list where the amounts of the other list have been
// subtracted. It returns an error when a balance would become negative.
// Denominations reaching zero are removed from the result.
func (c Coins) Sub(other Coins) (Coins, error) {
	amounts := make(map[string]uint64)

	for _, coin := range c {
		amounts[coin.Denom] += coin.Amount
	}

	for _, coin := range other {
		if amounts[coin.Denom] < coin.Amount {
			return nil, xerrors.Errorf("missing %s: %d < %d",
				coin.Denom, amounts[coin.Denom], coin.Amount)
		}

		amounts[coin.Denom] -= coin.Amount
	}

	res := make(Coins, 0, len(amounts))
	for denom, amount := range amounts {
		if amount > 0 {
			res = append(res, New(amount, denom))
		}
	}

	return res.sorted(), nil
}

// String implements fmt.Stringer. It returns the comma-separated textual
// form of the list, in its current order.
func (c Coins) String() string {
	parts := make([]string, len(c))
	for i, coin := range c {
		parts[i] = coin.String()
	}

	return strings.Join(parts, ",")
}

func (c Coins) sorted() Coins {
	res := append(Coins{}, c...)

	sort.Slice(res, func(i, j int) bool {
		if res[i].Denom != res[j].Denom {
			return res[i].Denom < res[j].Denom
		}

		return res[i].Amount < res[j].Amount
	})

	return res
}

// Parse returns the coin of a textual form like "40eth".
func Parse(raw string) (Coin, error) {
	split := 0
	for split < len(raw) && raw[split] >= '0' && raw[split] <= '9' {
		split++
	}

	if split == 0 || split == len(raw) {
		return Coin{}, xerrors.Errorf("invalid coin '%s': expect <amount><denomination>", raw)
	}

	amount, err := strconv.ParseUint(raw[:split], 10, 64)
	if err != nil {
		return Coin{}, xerrors.Errorf("invalid amount in '%s': %v", raw, err)
	}

	coin := New(amount, raw[split:])

	err = Coins{coin}.Validate()
	if err != nil {
		return Coin{}, err
	}

	return coin, nil
}

// ParseMany parses a comma-separated list of coins. An empty string is an
// empty list.
func ParseMany(raw string) (Coins, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	parts := strings.Split(raw, ",")

	res := make(Coins, len(parts))
	for i, part := range parts {
		coin, err := Parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}

		res[i] = coin
	}

	err := res.Validate()
	if err != nil {
		return nil, err
	}

	return res, nil
}
