package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/delivery"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/middleware"
)

type authHandler struct {
	auth domain.AuthUsecase
}

// New registers the /auth routes. httpCache fronts the routes whose response
// never changes.
func New(e *echo.Echo, auth domain.AuthUsecase, httpCache echo.MiddlewareFunc) {
	handler := &authHandler{
		auth: auth,
	}
	g := e.Group("/auth")
	g.GET("/nonce/:address", handler.getNonce, middleware.IsValidAddress("address"))
	g.POST("/sign", handler.sign)
	g.GET("/signingMsgTemplate", handler.getSigningMsgTemplate, httpCache)
}

// getNonce
//
//	@Summary		Get login nonce
//	@Description	Issue a one time nonce, sign the template filled with it and post to /auth/sign
//	@Tags			auth
//	@Produce		json
//	@Param			address	path		string	true	"account address"
//	@Success		200		{object}	object{data=string}
//	@Failure		400
//	@Router			/auth/nonce/{address} [get]
func (h *authHandler) getNonce(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	nonce, err := h.auth.GetNonce(ctx, domain.Address(c.Param("address")))
	if err != nil {
		ctx.WithField("err", err).Error("auth.GetNonce failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nonce)
}

// sign
//
//	@Summary		Get access token
//	@Description	Create access token for given address from the signature of its nonce
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			params	body		http.sign.params	true	"params"
//	@Success		201		{object}	object{data=string}
//	@Failure		400
//	@Failure		401
//	@Failure		500
//	@Router			/auth/sign [post]
func (h *authHandler) sign(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address   domain.Address `json:"address" validate:"required,address" example:"0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d"` // account address
		Signature string         `json:"signature" validate:"required"`                                                           // personal_sign of the filled template
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if tkn, err := h.auth.Login(ctx, p.Address, p.Signature); err != nil {
		ctx.WithField("err", err).Error("auth.Login failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
	}
}

// getSigningMsgTemplate
//
//	@Summary		Get signature template
//	@Description	Replace %s with nonce fetched from /auth/nonce to build signing message
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	object{msg=string}	"signing message template"
//	@Router			/auth/signingMsgTemplate [get]
func (h *authHandler) getSigningMsgTemplate(c echo.Context) error {
	res := struct {
		Msg string `json:"template"`
	}{
		Msg: h.auth.GetSigningMsgTemplate(),
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
