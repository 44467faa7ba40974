package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/delivery"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/payment"
	"github.com/x-xyz/nftmarket/middleware"
	authMiddleware "github.com/x-xyz/nftmarket/stores/auth/delivery/http/middleware"
)

type handler struct {
	payment payment.Usecase
}

func New(e *echo.Echo, payment payment.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		payment: payment,
	}
	g := e.Group("/balances")
	g.GET("/:address", h.getBalance, middleware.IsValidAddress("address"))

	// admin
	g.POST("/deposit", h.deposit, authMiddleware.Auth(), authMiddleware.IsAdmin())
}

// getBalance
//
//	@Summary	Get balance
//	@Tags		balance
//	@Produce	json
//	@Param		address	path		string	true	"account address"
//	@Success	200		{object}	object{data=payment.Balance}
//	@Failure	400
//	@Router		/balances/{address} [get]
func (h *handler) getBalance(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	b, err := h.payment.Balance(ctx, domain.Address(c.Param("address")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, b)
}

// deposit
//
//	@Summary		Deposit
//	@Description	Credit an address, admin only
//	@Tags			balance
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.deposit.params	true	"params"
//	@Success		200		{object}	object{data=payment.Balance}
//	@Failure		400
//	@Failure		403
//	@Router			/balances/deposit [post]
func (h *handler) deposit(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address domain.Address `json:"address" validate:"required,address"`
		Amount  domain.Amount  `json:"amount" validate:"required,decimal"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	b, err := h.payment.Deposit(ctx, p.Address, p.Amount)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, b)
}
