package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/validator"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/middleware"
	"github.com/x-xyz/nftmarket/service/memdb"
	"github.com/x-xyz/nftmarket/stores/asset/repository"
	"github.com/x-xyz/nftmarket/stores/asset/usecase"
	authMiddleware "github.com/x-xyz/nftmarket/stores/auth/delivery/http/middleware"
	authUsecase "github.com/x-xyz/nftmarket/stores/auth/usecase"
)

func TestMintAndGet(t *testing.T) {
	auth := authUsecase.New(&authUsecase.AuthUseCaseCfg{JwtSecret: "secret"})
	token, err := auth.SignToken(ctx.Background(), domain.Address("0x00000000000000000000000000000000000000a1"))
	require.NoError(t, err)

	e := echo.New()
	e.Validator = validator.NewCustomValidator(validator.New())
	e.Use(middleware.InitMiddleware().AddContext())
	New(e, usecase.New(repository.NewMemory(memdb.New())), authMiddleware.New(auth))

	do := func(method, path, body string, withToken bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if withToken {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodGet, "/items/1", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(http.MethodPost, "/items", `{"contentRef":""}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPost, "/items", `{"contentRef":"ipfs://abc"}`, true)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"owner":"0x00000000000000000000000000000000000000a1"`)

	rec = do(http.MethodGet, "/items/1", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"contentRef":"ipfs://abc"`)
}
