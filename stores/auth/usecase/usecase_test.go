package usecase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/ethereum"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/keys"
	"github.com/x-xyz/nftmarket/service/cache"
	"github.com/x-xyz/nftmarket/service/cache/provider/primitive"
	"github.com/x-xyz/nftmarket/stores/auth/usecase"
)

const template = "Sign in to the market, nonce: %s"

var (
	mockCtx = ctx.Background()
)

type authSuite struct {
	suite.Suite
	u domain.AuthUsecase
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupTest() {
	s.u = usecase.New(&usecase.AuthUseCaseCfg{
		JwtSecret:          "jwt-secret",
		SigningMsgTemplate: template,
		AdminAddresses:     []domain.Address{"0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D"},
		Nonces: cache.New(cache.ServiceConfig{
			Ttl:   time.Minute,
			Pfx:   keys.PfxNonce,
			Cache: primitive.NewPrimitive(keys.PfxNonce, 1),
		}),
	})
}

func (s *authSuite) TestSignAndParseToken() {
	tkn, err := s.u.SignToken(mockCtx, "0xABC")
	s.NoError(err)
	s.NotEmpty(tkn)
	ads, err := s.u.ParseToken(mockCtx, tkn)
	s.NoError(err)
	s.Equal("0xabc", ads)

	_, err = s.u.ParseToken(mockCtx, "garbage")
	s.Error(err)
}

func (s *authSuite) TestLogin() {
	key, address, err := ethereum.GenerateKey()
	s.Require().NoError(err)

	nonce, err := s.u.GetNonce(mockCtx, domain.Address(address))
	s.Require().NoError(err)

	sig, err := ethereum.SignMsg([]byte(fmt.Sprintf(template, nonce)), key)
	s.Require().NoError(err)

	tkn, err := s.u.Login(mockCtx, domain.Address(address), sig)
	s.Require().NoError(err)
	ads, err := s.u.ParseToken(mockCtx, tkn)
	s.NoError(err)
	s.Equal(domain.Address(address).ToLowerStr(), ads)

	// the nonce is single use
	_, err = s.u.Login(mockCtx, domain.Address(address), sig)
	s.Equal(domain.ErrUnauthorized, err)
}

func (s *authSuite) TestLoginWrongSigner() {
	_, address, err := ethereum.GenerateKey()
	s.Require().NoError(err)
	other, _, err := ethereum.GenerateKey()
	s.Require().NoError(err)

	nonce, err := s.u.GetNonce(mockCtx, domain.Address(address))
	s.Require().NoError(err)
	sig, err := ethereum.SignMsg([]byte(fmt.Sprintf(template, nonce)), other)
	s.Require().NoError(err)

	_, err = s.u.Login(mockCtx, domain.Address(address), sig)
	s.Equal(domain.ErrInvalidSignature, err)
}

func (s *authSuite) TestLoginWithoutNonce() {
	_, address, err := ethereum.GenerateKey()
	s.Require().NoError(err)
	_, err = s.u.Login(mockCtx, domain.Address(address), "0x00")
	s.Equal(domain.ErrUnauthorized, err)

	_, err = s.u.GetNonce(mockCtx, "nope")
	s.Equal(domain.ErrInvalidAddress, err)
}

func (s *authSuite) TestIsAdmin() {
	s.True(s.u.IsAdmin("0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d"))
	s.False(s.u.IsAdmin("0x0000000000000000000000000000000000000001"))
}
