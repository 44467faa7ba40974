package domain

import (
	"github.com/golang-jwt/jwt"
	"github.com/x-xyz/nftmarket/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	// GetNonce issues a one time nonce the address has to sign to log in
	GetNonce(c ctx.Ctx, address Address) (string, error)
	// Login checks the signature over the pending nonce and returns a token
	Login(c ctx.Ctx, address Address, signature string) (string, error)
	GetSigningMsgTemplate() string

	SignToken(c ctx.Ctx, address Address) (string, error)
	ParseToken(c ctx.Ctx, token string) (address string, err error)
	IsAdmin(address Address) bool
}
