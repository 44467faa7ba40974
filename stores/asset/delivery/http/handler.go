package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/delivery"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
	"github.com/x-xyz/nftmarket/middleware"
	authMiddleware "github.com/x-xyz/nftmarket/stores/auth/delivery/http/middleware"
)

type handler struct {
	asset asset.Usecase
}

func New(e *echo.Echo, asset asset.Usecase, authMiddleware *authMiddleware.AuthMiddleware) {
	h := &handler{
		asset: asset,
	}
	g := e.Group("/items")
	g.POST("", h.mint, authMiddleware.Auth())
	g.GET("/:tokenId", h.get, middleware.IsValidTokenId("tokenId"))
}

// mint
//
//	@Summary		Mint an item
//	@Description	Mint a new item owned by the caller. contentRef is a uri, data uris get their content type detected.
//	@Tags			item
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.mint.params	true	"params"
//	@Success		201		{object}	object{data=asset.Item}
//	@Failure		400
//	@Router			/items [post]
func (h *handler) mint(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		ContentRef string `json:"contentRef" validate:"required"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	item, err := h.asset.Mint(ctx, caller, p.ContentRef)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, item)
}

// get
//
//	@Summary	Get item
//	@Tags		item
//	@Produce	json
//	@Param		tokenId	path		string	true	"token id"
//	@Success	200		{object}	object{data=asset.Item}
//	@Failure	404
//	@Router		/items/{tokenId} [get]
func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	item, err := h.asset.Get(ctx, domain.TokenId(c.Param("tokenId")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, item)
}
