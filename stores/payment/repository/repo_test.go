package repository

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/mongoclient"
	"github.com/x-xyz/nftmarket/domain"
	"github.com/x-xyz/nftmarket/domain/payment"
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
	newRepo func() payment.Repo
	repo    payment.Repo
}

func TestMemoryRepo(t *testing.T) {
	suite.Run(t, &repoSuite{newRepo: func() payment.Repo {
		return NewMemory(memdb.New())
	}})
}

func TestMongoRepo(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	client := mongoclient.MustConnect(mongoclient.Config{URI: uri, AuthDBName: "admin", DbName: "payment_test", SetSafe: true})
	suite.Run(t, &repoSuite{newRepo: func() payment.Repo {
		if err := client.Database(client.DbName).Collection(string(domain.TableBalances)).Drop(mockCtx); err != nil {
			t.Fatal(err)
		}
		return NewMongo(query.New(client, false))
	}})
}

func (s *repoSuite) SetupTest() {
	s.repo = s.newRepo()
}

func (s *repoSuite) balance(a domain.Address) domain.Amount {
	bal, err := s.repo.Balance(mockCtx, a)
	s.Require().NoError(err)
	return bal
}

func (s *repoSuite) TestMissingBalanceIsZero() {
	s.True(s.balance(alice).IsZero())
}

func (s *repoSuite) TestDepositAndPay() {
	bal, err := s.repo.Deposit(mockCtx, alice, "10.5")
	s.NoError(err)
	s.True(bal.Equals("10.5"))

	s.NoError(s.repo.Pay(mockCtx, alice, bob, "4"))
	s.True(s.balance(alice).Equals("6.5"))
	s.True(s.balance(bob).Equals("4"))
}

func (s *repoSuite) TestPayInsufficientLeavesBalances() {
	_, err := s.repo.Deposit(mockCtx, alice, "1")
	s.Require().NoError(err)

	s.Equal(payment.ErrInsufficientFunds, s.repo.Pay(mockCtx, alice, bob, "1.01"))
	s.True(s.balance(alice).Equals("1"))
	s.True(s.balance(bob).IsZero())
}

func (s *repoSuite) TestPayEdgeAmounts() {
	s.NoError(s.repo.Pay(mockCtx, alice, bob, "0"))
	s.Equal(payment.ErrInvalidAmount, s.repo.Pay(mockCtx, alice, bob, "-1"))
	_, err := s.repo.Deposit(mockCtx, alice, "-1")
	s.Equal(payment.ErrInvalidAmount, err)
}

func (s *repoSuite) TestPaySelf() {
	_, err := s.repo.Deposit(mockCtx, alice, "3")
	s.Require().NoError(err)
	s.NoError(s.repo.Pay(mockCtx, alice, alice, "2"))
	s.True(s.balance(alice).Equals("3"))
}

func (s *repoSuite) TestConcurrentPayNeverOverdraws() {
	_, err := s.repo.Deposit(mockCtx, alice, "5")
	s.Require().NoError(err)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.repo.Pay(mockCtx, alice, bob, "1"); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(5, ok)
	s.True(s.balance(alice).IsZero())
	s.True(s.balance(bob).Equals("5"))
}
