package repository

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/asset"
	"github.com/x-xyz/nftmarket/service/memdb"
	"github.com/x-xyz/nftmarket/service/query"
)

var (
	mockCtx = ctx.Background()
	alice   = domain.Address("0x00000000000000000000000000000000000000A1")
	bob     = domain.Address("0x00000000000000000000000000000000000000b2")
)

// repoSuite runs against every Repo implementation
type repoSuite struct {
	suite.Suite
	newRepo func() asset.Repo
	repo    asset.Repo
}

func TestMemoryRepo(t *testing.T) {
	suite.Run(t, &repoSuite{newRepo: func() asset.Repo {
		return NewMemory(memdb.New())
	}})
}

func TestMongoRepo(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	client := mongoclient.MustConnect(mongoclient.Config{URI: uri, AuthDBName: "admin", DbName: "asset_test", SetSafe: true})
	suite.Run(t, &repoSuite{newRepo: func() asset.Repo {
		db := client.Database(client.DbName)
		for _, tbl := range []domain.Table{domain.TableItems, domain.TableSequences} {
			if err := db.Collection(string(tbl)).Drop(mockCtx); err != nil {
				t.Fatal(err)
			}
		}
		return NewMongo(query.New(client, false))
	}})
}

func (s *repoSuite) SetupTest() {
	s.repo = s.newRepo()
}

func (s *repoSuite) TestMintAssignsSequentialIds() {
	for i := 1; i <= 3; i++ {
		item, err := s.repo.Mint(mockCtx, alice, "ipfs://x", "")
		s.Require().NoError(err)
		s.Equal(domain.TokenIdFromSeq(int64(i)), item.TokenId)
		s.Equal(alice.ToLower(), item.Owner)
		s.Equal(alice.ToLower(), item.Minter)
	}
}

func (s *repoSuite) TestTransfer() {
	item, err := s.repo.Mint(mockCtx, alice, "ipfs://x", "")
	s.Require().NoError(err)

	s.Equal(asset.ErrTransferDenied, s.repo.Transfer(mockCtx, item.TokenId, bob, alice))
	s.Equal(asset.ErrItemNotFound, s.repo.Transfer(mockCtx, "99", alice, bob))

	s.NoError(s.repo.Transfer(mockCtx, item.TokenId, alice, bob))
	owner, err := s.repo.OwnerOf(mockCtx, item.TokenId)
	s.NoError(err)
	s.Equal(bob.ToLower(), owner)
}

func (s *repoSuite) TestFindAllOrderedBySeq() {
	// enough items that string order of ids differs from mint order
	for i := 0; i < 11; i++ {
		owner := alice
		if i%2 == 1 {
			owner = bob
		}
		_, err := s.repo.Mint(mockCtx, owner, "ipfs://x", "")
		s.Require().NoError(err)
	}

	items, err := s.repo.FindAll(mockCtx, asset.WithOwner(alice))
	s.NoError(err)
	s.Len(items, 6)
	for i := 1; i < len(items); i++ {
		s.Less(items[i-1].Seq, items[i].Seq)
	}
	s.Equal(domain.TokenId("11"), items[5].TokenId)

	page, err := s.repo.FindAll(mockCtx, asset.WithPagination(2, 3))
	s.NoError(err)
	s.Len(page, 3)
	s.Equal(domain.TokenId("3"), page[0].TokenId)

	_, err = s.repo.FindAll(mockCtx, asset.WithPagination(-1, 3))
	s.Equal(domain.ErrBadParamInput, err)
}

func (s *repoSuite) TestFindOneMissing() {
	_, err := s.repo.FindOne(mockCtx, "1")
	s.Equal(asset.ErrItemNotFound, err)
}
