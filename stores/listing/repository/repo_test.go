package repository

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/base/ptr"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/listing"
	"github.com/x-xyz/nftmarket/service/memdb"
	"github.com/x-xyz/nftmarket/service/query"
)

var (
	mockCtx = ctx.Background()
	alice   = domain.Address("0x00000000000000000000000000000000000000a1")
	bob     = domain.Address("0x00000000000000000000000000000000000000b2")
)

// repoSuite runs against every implementation
type repoSuite struct {
	suite.Suite
	newRepos func() (listing.Repo, listing.SaleRepo)
	repo     listing.Repo
	sales    listing.SaleRepo
}

func TestMemoryRepo(t *testing.T) {
	suite.Run(t, &repoSuite{newRepos: func() (listing.Repo, listing.SaleRepo) {
		db := memdb.New()
		return NewMemory(db), NewSaleMemory(db)
	}})
}

func TestMongoRepo(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	client := mongoclient.MustConnect(mongoclient.Config{URI: uri, AuthDBName: "admin", DbName: "listing_test", SetSafe: true})
	suite.Run(t, &repoSuite{newRepos: func() (listing.Repo, listing.SaleRepo) {
		db := client.Database(client.DbName)
		for _, tbl := range []domain.Table{domain.TableListings, domain.TableSales, domain.TableSequences} {
			if err := db.Collection(string(tbl)).Drop(mockCtx); err != nil {
				t.Fatal(err)
			}
		}
		q := query.New(client, false)
		return NewMongo(q), NewSaleMongo(q)
	}})
}

func (s *repoSuite) SetupTest() {
	s.repo, s.sales = s.newRepos()
}

func (s *repoSuite) list(tokenId domain.TokenId, seller domain.Address, active bool) {
	seq, err := s.repo.NextSeq(mockCtx)
	s.Require().NoError(err)
	now := time.Now().UTC().Truncate(time.Millisecond)
	s.Require().NoError(s.repo.Upsert(mockCtx, &listing.Listing{
		TokenId:   tokenId,
		Seq:       seq,
		Seller:    seller,
		Price:     "1",
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func (s *repoSuite) TestFindOne() {
	_, err := s.repo.FindOne(mockCtx, "1")
	s.Equal(domain.ErrNotFound, err)

	s.list("1", alice, true)
	l, err := s.repo.FindOne(mockCtx, "1")
	s.Require().NoError(err)
	s.Equal(alice, l.Seller)
	s.True(l.Active)
	s.Equal(int64(1), l.Seq)
}

func (s *repoSuite) TestVersion() {
	ver, err := s.repo.Version(mockCtx)
	s.Require().NoError(err)
	s.Equal(int64(0), ver)

	for want := int64(1); want <= 2; want++ {
		got, err := s.repo.BumpVersion(mockCtx)
		s.Require().NoError(err)
		s.Equal(want, got)
	}
	ver, err = s.repo.Version(mockCtx)
	s.NoError(err)
	s.Equal(int64(2), ver)

	// independent of the listing sequence
	s.list("1", alice, true)
	l, err := s.repo.FindOne(mockCtx, "1")
	s.Require().NoError(err)
	s.Equal(int64(1), l.Seq)
}

func (s *repoSuite) TestPatchIsConditional() {
	s.list("1", alice, true)

	// expected inactive but it is active
	s.Equal(domain.ErrNotFound, s.repo.Patch(mockCtx, "1", false, listing.PatchableListing{Active: ptr.Bool(true)}))
	s.Equal(domain.ErrNotFound, s.repo.Patch(mockCtx, "2", true, listing.PatchableListing{Active: ptr.Bool(false)}))

	buyer := bob
	s.NoError(s.repo.Patch(mockCtx, "1", true, listing.PatchableListing{Active: ptr.Bool(false), Buyer: &buyer}))
	l, err := s.repo.FindOne(mockCtx, "1")
	s.Require().NoError(err)
	s.False(l.Active)
	s.Require().NotNil(l.Buyer)
	s.Equal(bob, *l.Buyer)
	s.Equal(domain.Amount("1"), l.Price)
}

func (s *repoSuite) TestFindAll() {
	s.list("3", alice, true)
	s.list("1", bob, true)
	s.list("2", alice, false)

	all, err := s.repo.FindAll(mockCtx)
	s.NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]domain.TokenId{"3", "1", "2"}, []domain.TokenId{all[0].TokenId, all[1].TokenId, all[2].TokenId})

	active, err := s.repo.FindAll(mockCtx, listing.WithActive(true))
	s.NoError(err)
	s.Len(active, 2)

	mine, err := s.repo.FindAll(mockCtx, listing.WithSeller(alice), listing.WithActive(true))
	s.NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(domain.TokenId("3"), mine[0].TokenId)
}

func (s *repoSuite) TestSales() {
	t0 := time.Now().UTC().Truncate(time.Millisecond)
	s.NoError(s.sales.Insert(mockCtx, &listing.Sale{Id: "b", TokenId: "1", Seller: bob, Buyer: alice, Price: "2", CreatedAt: t0.Add(time.Second)}))
	s.NoError(s.sales.Insert(mockCtx, &listing.Sale{Id: "a", TokenId: "1", Seller: alice, Buyer: bob, Price: "1", CreatedAt: t0}))
	s.NoError(s.sales.Insert(mockCtx, &listing.Sale{Id: "c", TokenId: "2", Seller: alice, Buyer: bob, Price: "1", CreatedAt: t0}))

	res, err := s.sales.FindByToken(mockCtx, "1")
	s.NoError(err)
	s.Require().Len(res, 2)
	s.Equal("a", res[0].Id)
	s.Equal("b", res[1].Id)
}
