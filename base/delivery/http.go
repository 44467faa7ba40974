package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/domain/payment"
	"github.com/x-xyz/nftmarket/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data      interface{}        `json:"data"`
	Status    JsonResponseStatus `json:"status"`
	Retryable bool               `json:"retryable,omitempty"`
}

// market rejections by the status they are reported with
var listingStatus = map[error]int{
	listing.ErrInvalidFee:        http.StatusBadRequest,
	listing.ErrInvalidPrice:      http.StatusBadRequest,
	listing.ErrWrongPrice:        http.StatusBadRequest,
	listing.ErrInvalidRecipient:  http.StatusBadRequest,
	listing.ErrInsufficientFunds: http.StatusPaymentRequired,
	listing.ErrNotOwner:          http.StatusForbidden,
	listing.ErrNotSeller:         http.StatusForbidden,
	listing.ErrSelfPurchase:      http.StatusForbidden,
	listing.ErrTransferDenied:    http.StatusForbidden,
	listing.ErrNoSuchListing:     http.StatusNotFound,
	listing.ErrNotListed:         http.StatusConflict,
	listing.ErrNotForSale:        http.StatusConflict,
	listing.ErrAlreadyListed:     http.StatusConflict,
}

// StatusOf maps err to the http status it is reported with
func StatusOf(err error) int {
	if status, ok := lookupStatus(err); ok {
		return status
	}
	return http.StatusInternalServerError
}

func lookupStatus(err error) (int, bool) {
	var le *listing.Error
	if errors.As(err, &le) {
		if status, ok := listingStatus[le.Err]; ok {
			return status, true
		}
	}

	switch {
	case errors.Is(err, domain.ErrBadParamInput),
		errors.Is(err, domain.ErrInvalidNumberFormat),
		errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, asset.ErrEmptyContent),
		errors.Is(err, payment.ErrInvalidAmount):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, payment.ErrInsufficientFunds):
		return http.StatusPaymentRequired, true
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, asset.ErrTransferDenied):
		return http.StatusForbidden, true
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, query.ErrNotFound),
		errors.Is(err, asset.ErrItemNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, query.ErrDuplicateKey):
		return http.StatusConflict, true
	}
	return 0, false
}

// MakeJsonResp writes data in the response envelope. A known error as data
// overrides status with the one it maps to.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	retryable := false
	if err, ok := data.(error); ok {
		if s, ok := lookupStatus(err); ok {
			status = s
		}
		retryable = listing.IsRetryable(err)
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{Data: data, Status: JsonResponseStatusFail, Retryable: retryable})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{Data: data, Status: JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
