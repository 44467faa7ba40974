package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"
)

type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// TokenId is the decimal string form of an item's mint sequence
type TokenId string

func (i TokenId) String() string {
	return string(i)
}

// Seq parses the token id back to its mint sequence
func (i TokenId) Seq() (int64, error) {
	seq, err := strconv.ParseInt(string(i), 10, 64)
	if err != nil || seq <= 0 {
		return 0, xerrors.Errorf("invalid token id %q: %w", string(i), ErrInvalidNumberFormat)
	}
	return seq, nil
}

func TokenIdFromSeq(seq int64) TokenId {
	return TokenId(strconv.FormatInt(seq, 10))
}

// Amount is a non-negative currency value kept as a canonical decimal string
// so it can be stored and compared without float rounding.
type Amount string

func NewAmount(d decimal.Decimal) Amount {
	return Amount(d.String())
}

func AmountFromInt(v int64) Amount {
	return NewAmount(decimal.NewFromInt(v))
}

// ParseAmount accepts any decimal literal and returns its canonical form
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", xerrors.Errorf("invalid amount %q: %w", s, ErrInvalidNumberFormat)
	}
	return NewAmount(d), nil
}

// Decimal returns zero for an empty or malformed amount
func (a Amount) Decimal() decimal.Decimal {
	if a == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(string(a))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Equals(b Amount) bool {
	return a.Decimal().Equal(b.Decimal())
}

func (a Amount) IsNegative() bool {
	return a.Decimal().IsNegative()
}

func (a Amount) IsZero() bool {
	return a.Decimal().IsZero()
}

func (a Amount) Add(b Amount) Amount {
	return NewAmount(a.Decimal().Add(b.Decimal()))
}

func (a Amount) Sub(b Amount) Amount {
	return NewAmount(a.Decimal().Sub(b.Decimal()))
}

func (a Amount) LessThan(b Amount) bool {
	return a.Decimal().LessThan(b.Decimal())
}

func (a Amount) String() string {
	return string(a)
}
