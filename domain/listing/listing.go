package listing

import (
	"time"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
)

// Listing is the market record of one item. It is created on the first
// listing and never deleted; Active tells whether it is currently for sale.
type Listing struct {
	TokenId   domain.TokenId  `json:"tokenId" bson:"tokenId"`
	Seq       int64           `json:"seq" bson:"seq"`
	Seller    domain.Address  `json:"seller" bson:"seller"`
	Price     domain.Amount   `json:"price" bson:"price"`
	Active    bool            `json:"active" bson:"active"`
	Buyer     *domain.Address `json:"buyer,omitempty" bson:"buyer,omitempty"`
	SoldAt    *time.Time      `json:"soldAt,omitempty" bson:"soldAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// PatchableListing holds the fields a state toggle may change, nil fields are left as is
type PatchableListing struct {
	Active    *bool           `bson:"active,omitempty"`
	Buyer     *domain.Address `bson:"buyer,omitempty"`
	SoldAt    *time.Time      `bson:"soldAt,omitempty"`
	UpdatedAt *time.Time      `bson:"updatedAt,omitempty"`
}

// Sale is the immutable record of one completed purchase
type Sale struct {
	Id        string         `json:"id" bson:"_id"`
	TokenId   domain.TokenId `json:"tokenId" bson:"tokenId"`
	Seller    domain.Address `json:"seller" bson:"seller"`
	Buyer     domain.Address `json:"buyer" bson:"buyer"`
	Price     domain.Amount  `json:"price" bson:"price"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

type FindAllOptions struct {
	Seller *domain.Address
	Active *bool
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

func WithSeller(seller domain.Address) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		s := seller.ToLower()
		options.Seller = &s
		return nil
	}
}

func WithActive(active bool) FindAllOptionsFunc {
	return func(options *FindAllOptions) error {
		options.Active = &active
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

// Repo stores listing records keyed by token id. FindAll orders by Seq.
type Repo interface {
	FindOne(c ctx.Ctx, tokenId domain.TokenId) (*Listing, error)
	FindAll(c ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Listing, error)
	// Upsert creates or replaces the whole record of value.TokenId
	Upsert(c ctx.Ctx, value *Listing) error
	// Patch applies value only when the stored record has Active == wasActive,
	// domain.ErrNotFound otherwise
	Patch(c ctx.Ctx, tokenId domain.TokenId, wasActive bool, value PatchableListing) error
	NextSeq(c ctx.Ctx) (int64, error)
	// Version counts committed market mutations, BumpVersion is called
	// inside the mutation's transaction
	Version(c ctx.Ctx) (int64, error)
	BumpVersion(c ctx.Ctx) (int64, error)
}

// SaleRepo is the append only sale history
type SaleRepo interface {
	Insert(c ctx.Ctx, sale *Sale) error
	// FindByToken returns the sales of one item, oldest first
	FindByToken(c ctx.Ctx, tokenId domain.TokenId) ([]*Sale, error)
}

// Usecase is the marketplace ledger. Mutations take the caller explicitly
// and either apply completely or not at all.
type Usecase interface {
	CreateAndListNFT(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, price, fee domain.Amount) (*Listing, error)
	RemoveNFTFromMarket(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId) error
	AddNFTToMarket(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId) error
	BuyNFT(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, payment domain.Amount) (*Sale, error)
	TransferNFT(c ctx.Ctx, caller domain.Address, tokenId domain.TokenId, to domain.Address) error

	FetchMarketItemsInSell(c ctx.Ctx) ([]*Listing, error)
	FetchMyNFTs(c ctx.Ctx, caller domain.Address) ([]*asset.Item, error)
	GetListingPrice() domain.Amount
	GetListing(c ctx.Ctx, tokenId domain.TokenId) (*Listing, error)
	FetchListingsBySeller(c ctx.Ctx, seller domain.Address, activeOnly bool) ([]*Listing, error)
	FetchSales(c ctx.Ctx, tokenId domain.TokenId) ([]*Sale, error)
}
