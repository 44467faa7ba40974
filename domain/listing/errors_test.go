package listing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
)

func TestErrorMatching(t *testing.T) {
	err := NewMismatchError(ErrWrongPrice, "3", domain.AmountFromInt(5), domain.Amount("4.5"))
	wrapped := xerrors.Errorf("buy failed: %w", err)

	assert.True(t, errors.Is(wrapped, ErrWrongPrice))
	assert.False(t, errors.Is(wrapped, ErrNotForSale))
	assert.Equal(t, "Please submit the asking price in order to complete the purchase (tokenId 3, expected 5, got 4.5)", err.Error())

	var le *Error
	assert.True(t, errors.As(wrapped, &le))
	assert.Equal(t, domain.TokenId("3"), le.TokenId)
}

func TestErrorCause(t *testing.T) {
	err := NewError(ErrNotOwner, "9").WithCause(asset.ErrItemNotFound)
	assert.True(t, errors.Is(err, ErrNotOwner))
	assert.True(t, errors.Is(err, asset.ErrItemNotFound))
	assert.Equal(t, "Caller does not own the NFT (tokenId 9): item not found", err.Error())
}

func TestRetryable(t *testing.T) {
	retryable := []error{ErrInvalidFee, ErrWrongPrice, ErrInsufficientFunds, ErrInvalidPrice}
	for _, e := range retryable {
		assert.True(t, IsRetryable(NewError(e, "1")), e.Error())
	}
	permanent := []error{ErrNotOwner, ErrNotListed, ErrNoSuchListing, ErrNotSeller, ErrNotForSale, ErrSelfPurchase, ErrAlreadyListed, ErrTransferDenied}
	for _, e := range permanent {
		assert.False(t, IsRetryable(NewError(e, "1")), e.Error())
	}
	assert.False(t, IsRetryable(errors.New("boom")))
}
