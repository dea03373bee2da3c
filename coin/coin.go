package coin

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pairswap/errors"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

var humanCoinFormatRx = regexp.MustCompile(`^(\d+)\s*([A-Z]{3,4})$`)

// Coin is an amount of a single token.
type Coin struct {
	// Ticker is the token identifier, ie. BTC.
	Ticker string `protobuf:"bytes,1,opt,name=ticker,proto3" json:"ticker,omitempty"`
	// Amount in the smallest indivisible unit of the token.
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (c *Coin) Reset()      { *c = Coin{} }
func (*Coin) ProtoMessage() {}

var _ proto.Message = (*Coin)(nil)

// NewCoin creates a new coin object
func NewCoin(amount uint64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: amount,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// ID returns a coin ticker name.
func (c Coin) ID() string {
	return c.Ticker
}

// Add combines two coins.
// Returns error if they are of different
// currencies, or if the combination would cause
// an overflow
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameType(o) {
		err := errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
		return Coin{}, err
	}
	if c.Amount > math.MaxUint64-o.Amount {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", c, o)
	}
	c.Amount += o.Amount
	return c, nil
}

// Subtract given amount. An amount greater than the coin value results in
// ErrInsufficientAmount.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	if !c.SameType(amount) {
		err := errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", amount.Ticker, c.Ticker)
		return Coin{}, err
	}
	if amount.Amount > c.Amount {
		return Coin{}, errors.Wrapf(errors.ErrInsufficientAmount, "%s - %s", c, amount)
	}
	c.Amount -= amount.Amount
	return c, nil
}

// Compare will check values of two coins, without
// inspecting the currency code. It is up to the caller
// to determine if they want to check this.
//
// Returns 1 if c is larger, -1 if o is larger, 0 if equal
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount > o.Amount:
		return 1
	case c.Amount < o.Amount:
		return -1
	default:
		return 0
	}
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true amounts are 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsGTE returns true if c is same type and at least
// as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same currency
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate ensures that the coin has a valid currency code.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid currency: %q", c.Ticker)
	}
	return nil
}

// String provides a human readable representation of the coin. For a valid
// coin the result can be parsed back using ParseHumanFormat.
func (c Coin) String() string {
	if c.Ticker == "" {
		return strconv.FormatUint(c.Amount, 10)
	}
	return strconv.FormatUint(c.Amount, 10) + " " + c.Ticker
}

func (c *Coin) UnmarshalJSON(raw []byte) error {
	// Prioritize human readable format that is a string in format
	// "<amount> <ticker>"
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Fallback into the default unmarshaling. Because UnmarshalJSON method
	// is provided, we can no longer use Coin type for this.
	var coin struct {
		Ticker string
		Amount uint64
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return err
	}
	c.Ticker = coin.Ticker
	c.Amount = coin.Amount
	return nil
}

// ParseHumanFormat parse a human readable coin representation. Accepted format
// is a string:
//   "<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	var c Coin
	result := humanCoinFormatRx.FindStringSubmatch(h)
	if result == nil {
		return c, errors.Wrapf(errors.ErrInvalidInput, "invalid coin format %q", h)
	}
	amount, err := strconv.ParseUint(result[1], 10, 64)
	if err != nil {
		return c, errors.Wrap(errors.ErrOverflow, fmt.Sprintf("invalid amount: %s", err))
	}
	c.Amount = amount
	c.Ticker = result[2]
	return c, nil
}
