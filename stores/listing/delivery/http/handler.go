package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/delivery"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/middleware"
	authMiddleware "github.com/x-xyz/nftmarket/stores/auth/delivery/http/middleware"
)

type handler struct {
	market listing.Usecase
}

// New registers the market routes. httpCache fronts the routes whose
// response never changes while the service runs.
func New(e *echo.Echo, market listing.Usecase, authMiddleware *authMiddleware.AuthMiddleware, httpCache echo.MiddlewareFunc) {
	h := &handler{
		market: market,
	}

	g := e.Group("/market")
	g.GET("/listingPrice", h.getListingPrice, httpCache)
	g.GET("/items", h.getItemsInSell)
	g.GET("/items/:tokenId", h.getListing, middleware.IsValidTokenId("tokenId"))
	g.GET("/items/:tokenId/sales", h.getSales, middleware.IsValidTokenId("tokenId"))
	g.POST("/items", h.createAndList, authMiddleware.Auth())
	g.POST("/items/:tokenId/remove", h.remove, authMiddleware.Auth(), middleware.IsValidTokenId("tokenId"))
	g.POST("/items/:tokenId/relist", h.relist, authMiddleware.Auth(), middleware.IsValidTokenId("tokenId"))
	g.POST("/items/:tokenId/buy", h.buy, authMiddleware.Auth(), middleware.IsValidTokenId("tokenId"))

	me := e.Group("/account", authMiddleware.Auth())
	me.GET("/nfts", h.getMyNFTs)
	me.GET("/listings", h.getMyListings)

	e.GET("/accounts/:address/nfts", h.getNFTsOf, middleware.IsValidAddress("address"))
	e.POST("/items/:tokenId/transfer", h.transfer, authMiddleware.Auth(), middleware.IsValidTokenId("tokenId"))
}

// getListingPrice
//
//	@Summary		Get listing price
//	@Description	The fee charged when an item is listed for the first time
//	@Tags			market
//	@Produce		json
//	@Success		200	{object}	object{data=string}
//	@Router			/market/listingPrice [get]
func (h *handler) getListingPrice(c echo.Context) error {
	return delivery.MakeJsonResp(c, http.StatusOK, h.market.GetListingPrice())
}

// getItemsInSell
//
//	@Summary	Get items for sale
//	@Tags		market
//	@Produce	json
//	@Success	200	{object}	object{data=[]listing.Listing}
//	@Router		/market/items [get]
func (h *handler) getItemsInSell(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.market.FetchMarketItemsInSell(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// getListing
//
//	@Summary	Get listing
//	@Tags		market
//	@Produce	json
//	@Param		tokenId	path		string	true	"token id"
//	@Success	200		{object}	object{data=listing.Listing}
//	@Failure	404
//	@Router		/market/items/{tokenId} [get]
func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.market.GetListing(ctx, domain.TokenId(c.Param("tokenId")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// getSales
//
//	@Summary	Get sale history of an item
//	@Tags		market
//	@Produce	json
//	@Param		tokenId	path		string	true	"token id"
//	@Success	200		{object}	object{data=[]listing.Sale}
//	@Router		/market/items/{tokenId}/sales [get]
func (h *handler) getSales(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.market.FetchSales(ctx, domain.TokenId(c.Param("tokenId")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// createAndList
//
//	@Summary		List an item
//	@Description	List an owned item for sale, fee must equal the listing price
//	@Tags			market
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			params	body		http.createAndList.params	true	"params"
//	@Success		201		{object}	object{data=listing.Listing}
//	@Failure		400
//	@Failure		402
//	@Failure		403
//	@Failure		409
//	@Router			/market/items [post]
func (h *handler) createAndList(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		TokenId domain.TokenId `json:"tokenId" validate:"required,numeric"`
		Price   domain.Amount  `json:"price" validate:"required,decimal"`
		Fee     domain.Amount  `json:"fee" validate:"required,decimal"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.market.CreateAndListNFT(ctx, caller, p.TokenId, p.Price, p.Fee)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

// remove
//
//	@Summary	Remove an item from sale
//	@Tags		market
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		tokenId	path	string	true	"token id"
//	@Success	200
//	@Failure	403
//	@Failure	409
//	@Router		/market/items/{tokenId}/remove [post]
func (h *handler) remove(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	if err := h.market.RemoveNFTFromMarket(ctx, caller, domain.TokenId(c.Param("tokenId"))); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// relist
//
//	@Summary		Put a removed item back on sale
//	@Description	No fee is charged and the previous price is kept
//	@Tags			market
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			tokenId	path	string	true	"token id"
//	@Success		200
//	@Failure		403
//	@Failure		404
//	@Failure		409
//	@Router			/market/items/{tokenId}/relist [post]
func (h *handler) relist(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	if err := h.market.AddNFTToMarket(ctx, caller, domain.TokenId(c.Param("tokenId"))); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// buy
//
//	@Summary		Buy an item
//	@Description	payment must equal the asking price exactly
//	@Tags			market
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			tokenId	path		string				true	"token id"
//	@Param			params	body		http.buy.params		true	"params"
//	@Success		200		{object}	object{data=listing.Sale}
//	@Failure		400
//	@Failure		402
//	@Failure		403
//	@Failure		409
//	@Router			/market/items/{tokenId}/buy [post]
func (h *handler) buy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		Payment domain.Amount `json:"payment" validate:"required,decimal"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.market.BuyNFT(ctx, caller, domain.TokenId(c.Param("tokenId")), p.Payment)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// transfer
//
//	@Summary		Transfer an owned item
//	@Description	An active listing of the item is taken off sale
//	@Tags			item
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Param			tokenId	path	string					true	"token id"
//	@Param			params	body	http.transfer.params	true	"params"
//	@Success		200
//	@Failure		400
//	@Failure		403
//	@Router			/items/{tokenId}/transfer [post]
func (h *handler) transfer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		To domain.Address `json:"to" validate:"required,address"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.market.TransferNFT(ctx, caller, domain.TokenId(c.Param("tokenId")), p.To); err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, nil)
}

// getMyNFTs
//
//	@Summary		Get my items
//	@Description	Items owned by the caller, listed items included
//	@Tags			account
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Success		200	{object}	object{data=[]asset.Item}
//	@Router			/account/nfts [get]
func (h *handler) getMyNFTs(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	res, err := h.market.FetchMyNFTs(ctx, caller)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// getMyListings
//
//	@Summary	Get my listings
//	@Tags		account
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		active	query		bool	false	"only listings currently for sale"
//	@Success	200		{object}	object{data=[]listing.Listing}
//	@Router		/account/listings [get]
func (h *handler) getMyListings(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	caller := c.Get("address").(domain.Address)

	activeOnly := false
	if v := c.QueryParam("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
		}
		activeOnly = b
	}

	res, err := h.market.FetchListingsBySeller(ctx, caller, activeOnly)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

// getNFTsOf
//
//	@Summary	Get items of an account
//	@Tags		account
//	@Produce	json
//	@Param		address	path		string	true	"account address"
//	@Success	200		{object}	object{data=[]asset.Item}
//	@Failure	400
//	@Router		/accounts/{address}/nfts [get]
func (h *handler) getNFTsOf(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	res, err := h.market.FetchMyNFTs(ctx, domain.Address(c.Param("address")))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
