package asset

import (
	"errors"
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
)

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrTransferDenied = errors.New("transfer denied: sender does not own the item")
	ErrEmptyContent   = errors.New("content ref is empty")
)

// Item is one unique asset of the registry
type Item struct {
	TokenId     domain.TokenId `json:"tokenId" bson:"tokenId"`
	Seq         int64          `json:"-" bson:"seq"`
	Owner       domain.Address `json:"owner" bson:"owner"`
	Minter      domain.Address `json:"minter" bson:"minter"`
	ContentRef  string         `json:"contentRef" bson:"contentRef"`
	ContentType string         `json:"contentType,omitempty" bson:"contentType"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updatedAt"`
}

type FindAllOptions struct {
	Owner  *domain.Address
	Offset *int32
	Limit  *int32
}

type FindAllOptionsFunc func(*FindAllOptions) error

func GetFindAllOptions(opts ...FindAllOptionsFunc) (FindAllOptions, error) {
	res := FindAllOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func WithOwner(owner domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		o := owner.ToLower()
		options.Owner = &o
		return nil
	}
}

func WithPagination(offset int32, limit int32) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		if offset < 0 || limit < 0 {
			return domain.ErrBadParamInput
		}
		options.Offset = &offset
		options.Limit = &limit
		return nil
	}
}

// Repo is the asset registry. Results of FindAll are ordered by mint sequence.
type Repo interface {
	Mint(c ctx.Ctx, owner domain.Address, contentRef, contentType string) (*Item, error)
	FindOne(c ctx.Ctx, tokenId domain.TokenId) (*Item, error)
	OwnerOf(c ctx.Ctx, tokenId domain.TokenId) (domain.Address, error)
	// Transfer moves the title from `from` to `to`, ErrTransferDenied when
	// `from` is not the current owner
	Transfer(c ctx.Ctx, tokenId domain.TokenId, from, to domain.Address) error
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Item, error)
}

type Usecase interface {
	Mint(c ctx.Ctx, owner domain.Address, contentRef string) (*Item, error)
	Get(c ctx.Ctx, tokenId domain.TokenId) (*Item, error)
	OwnerOf(c ctx.Ctx, tokenId domain.TokenId) (domain.Address, error)
	FetchOwned(c ctx.Ctx, owner domain.Address, opts ...FindAllOptionsFunc) ([]*Item, error)
}
