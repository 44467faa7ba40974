package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/validator"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/middleware"
	"github.com/x-xyz/nftmarket/service/memdb"
	assetRepo "github.com/x-xyz/nftmarket/stores/asset/repository"
	authMiddleware "github.com/x-xyz/nftmarket/stores/auth/delivery/http/middleware"
	authUsecase "github.com/x-xyz/nftmarket/stores/auth/usecase"
	listingRepo "github.com/x-xyz/nftmarket/stores/listing/repository"
	"github.com/x-xyz/nftmarket/stores/listing/usecase"
	paymentRepo "github.com/x-xyz/nftmarket/stores/payment/repository"
)

var (
	mockCtx = ctx.Background()
	seller  = domain.Address("0x00000000000000000000000000000000000000a1")
	buyer   = domain.Address("0x00000000000000000000000000000000000000b2")
)

type resp struct {
	Data      json.RawMessage `json:"data"`
	Status    string          `json:"status"`
	Retryable bool            `json:"retryable"`
}

type handlerSuite struct {
	suite.Suite
	e      *echo.Echo
	tokens map[domain.Address]string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(handlerSuite))
}

func (s *handlerSuite) SetupTest() {
	db := memdb.New()
	assets := assetRepo.NewMemory(db)
	payments := paymentRepo.NewMemory(db)

	_, err := assets.Mint(mockCtx, seller, "ipfs://t1", "")
	s.Require().NoError(err)
	_, err = payments.Deposit(mockCtx, seller, "10")
	s.Require().NoError(err)
	_, err = payments.Deposit(mockCtx, buyer, "100")
	s.Require().NoError(err)

	auth := authUsecase.New(&authUsecase.AuthUseCaseCfg{JwtSecret: "secret"})
	s.tokens = map[domain.Address]string{}
	for _, a := range []domain.Address{seller, buyer} {
		token, err := auth.SignToken(mockCtx, a)
		s.Require().NoError(err)
		s.tokens[a] = token
	}

	market := usecase.New(&usecase.MarketUseCaseCfg{
		ListingRepo:  listingRepo.NewMemory(db),
		SaleRepo:     listingRepo.NewSaleMemory(db),
		AssetRepo:    assets,
		PaymentRepo:  payments,
		Transactor:   db,
		ListingFee:   "1",
		FeeRecipient: "0x00000000000000000000000000000000000000c3",
	})

	s.e = echo.New()
	s.e.Validator = validator.NewCustomValidator(validator.New())
	s.e.Use(middleware.InitMiddleware().AddContext())
	noCache := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	New(s.e, market, authMiddleware.New(auth), noCache)
}

func (s *handlerSuite) do(method, path string, caller domain.Address, body string) (int, resp) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token, ok := s.tokens[caller]; ok {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	r := resp{}
	_ = json.Unmarshal(rec.Body.Bytes(), &r)
	return rec.Code, r
}

func (s *handlerSuite) itemsInSell() int {
	code, r := s.do(http.MethodGet, "/market/items", "", "")
	s.Require().Equal(http.StatusOK, code)
	items := []json.RawMessage{}
	s.Require().NoError(json.Unmarshal(r.Data, &items))
	return len(items)
}

func (s *handlerSuite) TestListingPrice() {
	code, r := s.do(http.MethodGet, "/market/listingPrice", "", "")
	s.Equal(http.StatusOK, code)
	s.JSONEq(`"1"`, string(r.Data))
}

func (s *handlerSuite) TestMarketFlow() {
	code, _ := s.do(http.MethodPost, "/market/items", "", `{"tokenId":"1","price":"50","fee":"1"}`)
	s.GreaterOrEqual(code, http.StatusBadRequest)

	code, r := s.do(http.MethodPost, "/market/items", seller, `{"tokenId":"1","price":"50","fee":"2"}`)
	s.Equal(http.StatusBadRequest, code)
	s.True(r.Retryable)
	s.Contains(string(r.Data), "expected 1, got 2")

	code, _ = s.do(http.MethodPost, "/market/items", seller, `{"tokenId":"1","price":"50"}`)
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/market/items", buyer, `{"tokenId":"1","price":"50","fee":"1"}`)
	s.Equal(http.StatusForbidden, code)

	code, r = s.do(http.MethodPost, "/market/items", seller, `{"tokenId":"1","price":"50","fee":"1"}`)
	s.Equal(http.StatusCreated, code)
	s.Equal("success", r.Status)
	s.Equal(1, s.itemsInSell())

	code, _ = s.do(http.MethodPost, "/market/items/1/buy", seller, `{"payment":"50"}`)
	s.Equal(http.StatusForbidden, code)

	code, r = s.do(http.MethodPost, "/market/items/1/buy", buyer, `{"payment":"49"}`)
	s.Equal(http.StatusBadRequest, code)
	s.True(r.Retryable)

	code, _ = s.do(http.MethodPost, "/market/items/1/buy", buyer, `{"payment":"50"}`)
	s.Equal(http.StatusOK, code)
	s.Equal(0, s.itemsInSell())

	code, r = s.do(http.MethodPost, "/market/items/1/buy", buyer, `{"payment":"50"}`)
	s.Equal(http.StatusConflict, code)
	s.False(r.Retryable)

	code, r = s.do(http.MethodGet, "/accounts/"+string(buyer)+"/nfts", "", "")
	s.Equal(http.StatusOK, code)
	s.Contains(string(r.Data), `"tokenId":"1"`)

	code, r = s.do(http.MethodGet, "/market/items/1/sales", "", "")
	s.Equal(http.StatusOK, code)
	s.Contains(string(r.Data), string(buyer))
}

func (s *handlerSuite) TestRemoveAndRelist() {
	code, _ := s.do(http.MethodPost, "/market/items/1/remove", seller, "")
	s.Equal(http.StatusConflict, code)
	code, _ = s.do(http.MethodPost, "/market/items/1/relist", seller, "")
	s.Equal(http.StatusNotFound, code)

	code, _ = s.do(http.MethodPost, "/market/items", seller, `{"tokenId":"1","price":"50","fee":"1"}`)
	s.Require().Equal(http.StatusCreated, code)

	code, _ = s.do(http.MethodPost, "/market/items/1/remove", buyer, "")
	s.Equal(http.StatusForbidden, code)
	code, _ = s.do(http.MethodPost, "/market/items/1/remove", seller, "")
	s.Equal(http.StatusOK, code)
	s.Equal(0, s.itemsInSell())

	code, r := s.do(http.MethodGet, "/account/listings?active=true", seller, "")
	s.Equal(http.StatusOK, code)
	s.JSONEq(`[]`, string(r.Data))

	code, _ = s.do(http.MethodPost, "/market/items/1/relist", seller, "")
	s.Equal(http.StatusOK, code)
	s.Equal(1, s.itemsInSell())

	code, _ = s.do(http.MethodGet, "/account/listings?active=maybe", seller, "")
	s.Equal(http.StatusBadRequest, code)
}

func (s *handlerSuite) TestTransfer() {
	code, _ := s.do(http.MethodPost, "/items/1/transfer", seller, `{"to":"0x12"}`)
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/items/1/transfer", buyer, `{"to":"`+string(seller)+`"}`)
	s.Equal(http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, "/items/1/transfer", seller, `{"to":"`+string(buyer)+`"}`)
	s.Equal(http.StatusOK, code)

	code, r := s.do(http.MethodGet, "/account/nfts", buyer, "")
	s.Equal(http.StatusOK, code)
	s.Contains(string(r.Data), `"tokenId":"1"`)
}

func (s *handlerSuite) TestBadTokenId() {
	code, _ := s.do(http.MethodGet, "/market/items/abc", "", "")
	s.Equal(http.StatusBadRequest, code)
	code, _ = s.do(http.MethodGet, "/market/items/7", "", "")
	s.Equal(http.StatusNotFound, code)
}
