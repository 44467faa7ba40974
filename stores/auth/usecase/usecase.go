package usecase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/ethereum"
	"github.com/x-xyz/nftmarket/base/validator"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/service/cache"
)

const tokenTtl = 24 * time.Hour

type AuthUseCaseCfg struct {
	JwtSecret          string
	SigningMsgTemplate string
	AdminAddresses     []domain.Address
	// Nonces keeps pending login nonces, its ttl bounds how long one is valid
	Nonces cache.Service
}

type impl struct {
	jwtSecret          []byte
	signingMsgTemplate string
	admins             map[domain.Address]bool
	nonces             cache.Service
}

func New(cfg *AuthUseCaseCfg) domain.AuthUsecase {
	admins := make(map[domain.Address]bool, len(cfg.AdminAddresses))
	for _, a := range cfg.AdminAddresses {
		admins[a.ToLower()] = true
	}
	return &impl{
		jwtSecret:          []byte(cfg.JwtSecret),
		signingMsgTemplate: cfg.SigningMsgTemplate,
		admins:             admins,
		nonces:             cfg.Nonces,
	}
}

func (im *impl) GetSigningMsgTemplate() string {
	return im.signingMsgTemplate
}

func (im *impl) GetNonce(c ctx.Ctx, address domain.Address) (string, error) {
	if !validator.IsValidAddress(string(address)) {
		return "", domain.ErrInvalidAddress
	}

	nonce := uuid.New().String()
	if err := im.nonces.Set(c, address.ToLowerStr(), nonce); err != nil {
		c.WithField("err", err).Error("nonces.Set failed")
		return "", err
	}
	return nonce, nil
}

// Login consumes the pending nonce, a second attempt needs a new one
func (im *impl) Login(c ctx.Ctx, address domain.Address, signature string) (string, error) {
	if !validator.IsValidAddress(string(address)) {
		return "", domain.ErrInvalidAddress
	}

	var nonce string
	if err := im.nonces.Take(c, address.ToLowerStr(), &nonce); err == cache.ErrNotFound {
		return "", domain.ErrUnauthorized
	} else if err != nil {
		c.WithField("err", err).Error("nonces.Take failed")
		return "", err
	}

	msg := []byte(fmt.Sprintf(im.signingMsgTemplate, nonce))
	if isValid, err := ethereum.ValidateMsgSignature(msg, signature, string(address)); err != nil {
		c.WithField("err", err).Warn("ValidateMsgSignature failed")
		return "", domain.ErrInvalidSignature
	} else if !isValid {
		return "", domain.ErrInvalidSignature
	}

	return im.SignToken(c, address)
}

func (im *impl) SignToken(ctx ctx.Ctx, address domain.Address) (string, error) {
	claims := domain.JwtCustomClaims{
		Address: address.ToLowerStr(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(tokenTtl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	if ss, err := token.SignedString(im.jwtSecret); err != nil {
		ctx.WithField("err", err).Error("token.SignedString failed")
		return "", err
	} else {
		return ss, nil
	}
}

func (im *impl) ParseToken(ctx ctx.Ctx, str string) (string, error) {
	token, err := jwt.ParseWithClaims(str, &domain.JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}
		return im.jwtSecret, nil
	})

	if token != nil {
		if claims, ok := token.Claims.(*domain.JwtCustomClaims); ok && token.Valid {
			return claims.Address, nil
		}
	}
	if err == nil {
		err = domain.ErrUnauthorized
	}
	return "", err
}

func (im *impl) IsAdmin(address domain.Address) bool {
	return im.admins[address.ToLower()]
}
