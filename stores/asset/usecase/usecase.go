package usecase

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/xerrors"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/validator"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
)

const dataUriSchema = "data:"

type impl struct {
	repo asset.Repo
}

func New(repo asset.Repo) asset.Usecase {
	return &impl{repo}
}

func (im *impl) Mint(c ctx.Ctx, owner domain.Address, contentRef string) (*asset.Item, error) {
	if !validator.IsValidAddress(string(owner)) {
		return nil, domain.ErrInvalidAddress
	}
	if len(strings.TrimSpace(contentRef)) == 0 {
		return nil, asset.ErrEmptyContent
	}

	item, err := im.repo.Mint(c, owner.ToLower(), contentRef, contentType(c, contentRef))
	if err != nil {
		c.WithField("err", err).Error("repo.Mint failed")
		return nil, err
	}
	c.WithField("tokenId", item.TokenId).WithField("owner", item.Owner).Info("minted")
	return item, nil
}

func (im *impl) Get(c ctx.Ctx, tokenId domain.TokenId) (*asset.Item, error) {
	return im.repo.FindOne(c, tokenId)
}

func (im *impl) OwnerOf(c ctx.Ctx, tokenId domain.TokenId) (domain.Address, error) {
	return im.repo.OwnerOf(c, tokenId)
}

func (im *impl) FetchOwned(c ctx.Ctx, owner domain.Address, opts ...asset.FindAllOptionsFunc) ([]*asset.Item, error) {
	if !validator.IsValidAddress(string(owner)) {
		return nil, domain.ErrInvalidAddress
	}
	opts = append([]asset.FindAllOptionsFunc{asset.WithOwner(owner)}, opts...)
	items, err := im.repo.FindAll(c, opts...)
	if err != nil {
		c.WithField("err", err).Error("repo.FindAll failed")
		return nil, err
	}
	return items, nil
}

// contentType sniffs the payload of a data uri, other refs are opaque
func contentType(c ctx.Ctx, ref string) string {
	if !strings.HasPrefix(ref, dataUriSchema) {
		return ""
	}
	data, err := decodeDataUri(ref)
	if err != nil {
		c.WithField("err", err).Warn("decodeDataUri failed")
		return ""
	}
	return mimetype.Detect(data).String()
}

// data:[<mediatype>][;base64],<data>
func decodeDataUri(uri string) ([]byte, error) {
	parts := strings.SplitN(strings.TrimPrefix(uri, dataUriSchema), ",", 2)
	if len(parts) < 2 || len(parts[1]) == 0 {
		return nil, xerrors.Errorf("no data part provided")
	}
	if strings.HasSuffix(parts[0], ";base64") {
		return base64.StdEncoding.DecodeString(parts[1])
	}
	return []byte(parts[1]), nil
}
