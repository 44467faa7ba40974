package listing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
	"github.com/x-xyz/nftmarket/domain/payment"
)

var (
	ErrInvalidFee       = errors.New("Price must be equal to listing price")
	ErrInvalidPrice     = errors.New("Price must not be negative")
	ErrNotOwner         = errors.New("Caller does not own the NFT")
	ErrNotListed        = errors.New("This NFT is not listed")
	ErrNoSuchListing    = errors.New("This NFT has never been listed")
	ErrNotSeller        = errors.New("Only the seller can remove the NFT")
	ErrNotForSale       = errors.New("This NFT is not for sale")
	ErrSelfPurchase     = errors.New("You can't buy your own NFT")
	ErrWrongPrice       = errors.New("Please submit the asking price in order to complete the purchase")
	ErrAlreadyListed    = errors.New("This NFT is already for sale")
	ErrInvalidRecipient = errors.New("Recipient must differ from the owner")

	// aliases so callers can match collaborator failures from this package
	ErrTransferDenied    = asset.ErrTransferDenied
	ErrInsufficientFunds = payment.ErrInsufficientFunds
)

// Error is returned for every rejected market operation. errors.Is matches
// Err and anything in the Cause chain.
type Error struct {
	Err      error
	TokenId  domain.TokenId
	Expected string
	Actual   string
	Cause    error
}

func (e *Error) Error() string {
	b := strings.Builder{}
	b.WriteString(e.Err.Error())
	if e.TokenId != "" {
		fmt.Fprintf(&b, " (tokenId %s", e.TokenId)
		if e.Expected != "" || e.Actual != "" {
			fmt.Fprintf(&b, ", expected %s, got %s", e.Expected, e.Actual)
		}
		b.WriteString(")")
	}
	if e.Cause != nil && e.Cause != e.Err {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// Retryable reports whether resubmitting with corrected input can succeed,
// as opposed to a denial that holds until the market state changes.
func (e *Error) Retryable() bool {
	switch e.Err {
	case ErrInvalidFee, ErrWrongPrice, ErrInsufficientFunds, ErrInvalidPrice:
		return true
	}
	return false
}

// NewError builds a rejection for tokenId
func NewError(err error, tokenId domain.TokenId) *Error {
	return &Error{Err: err, TokenId: tokenId}
}

// NewMismatchError builds a rejection carrying the expected and actual values
func NewMismatchError(err error, tokenId domain.TokenId, expected, actual domain.Amount) *Error {
	e := NewError(err, tokenId)
	e.Expected = expected.String()
	e.Actual = actual.String()
	return e
}

// WithCause attaches the underlying collaborator error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// IsRetryable reports Retryable of the first *Error in err's chain
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable()
	}
	return false
}
