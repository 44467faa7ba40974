package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/payment"
	"golang.org/x/xerrors"
)

func TestStatusOf(t *testing.T) {
	tokenId := domain.TokenId("1")
	cases := []struct {
		desc   string
		err    error
		status int
	}{
		{"invalid fee", listing.NewMismatchError(listing.ErrInvalidFee, tokenId, "1", "2"), http.StatusBadRequest},
		{"wrong price", listing.NewMismatchError(listing.ErrWrongPrice, tokenId, "1", "2"), http.StatusBadRequest},
		{"insufficient funds", listing.NewError(listing.ErrInsufficientFunds, tokenId), http.StatusPaymentRequired},
		{"self purchase", listing.NewError(listing.ErrSelfPurchase, tokenId), http.StatusForbidden},
		{"not owner of unknown item", listing.NewError(listing.ErrNotOwner, tokenId).WithCause(asset.ErrItemNotFound), http.StatusForbidden},
		{"no such listing", listing.NewError(listing.ErrNoSuchListing, tokenId), http.StatusNotFound},
		{"not for sale", listing.NewError(listing.ErrNotForSale, tokenId), http.StatusConflict},
		{"already listed", listing.NewError(listing.ErrAlreadyListed, tokenId), http.StatusConflict},
		{"wrapped bad param", xerrors.Errorf("parse: %w", domain.ErrBadParamInput), http.StatusBadRequest},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"item not found", asset.ErrItemNotFound, http.StatusNotFound},
		{"negative amount", payment.ErrInvalidAmount, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		require.Equal(t, c.status, StatusOf(c.err), c.desc)
	}
}

func TestMakeJsonResp(t *testing.T) {
	req := require.New(t)
	e := echo.New()

	rec := httptest.NewRecorder()
	ec := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	req.NoError(MakeJsonResp(ec, http.StatusOK, map[string]string{"k": "v"}))
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"data":{"k":"v"},"status":"success"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	ec = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	err := listing.NewMismatchError(listing.ErrWrongPrice, "7", "10", "9")
	req.NoError(MakeJsonResp(ec, http.StatusInternalServerError, err))
	req.Equal(http.StatusBadRequest, rec.Code)

	resp := JsonResponse{}
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	req.Equal(JsonResponseStatusFail, resp.Status)
	req.True(resp.Retryable)
	req.Equal(err.Error(), resp.Data)
}
