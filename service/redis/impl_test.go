package redis

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/base/database/redisclient"
	"github.com/x-xyz/nftmarket/base/metrics"
	"github.com/x-xyz/nftmarket/domain/keys"
)

type redisSuite struct {
	suite.Suite
	im Service
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(redisSuite))
}

func (s *redisSuite) SetupSuite() {
	uri := os.Getenv("TEST_REDIS_URI")
	if uri == "" {
		s.T().Skip("TEST_REDIS_URI not set")
	}
	pool := redisclient.MustConnectRedis(uri, "")
	s.im = New("test", metrics.New("redis"), &Pools{Src: pool})
}

func (s *redisSuite) TestSetGetDel() {
	c := ctx.Background()
	key := keys.RedisKey("test", "setget")

	s.Require().NoError(s.im.Set(c, key, []byte("v"), time.Minute))
	val, err := s.im.Get(c, key)
	s.Require().NoError(err)
	s.Equal([]byte("v"), val)

	ttl, err := s.im.TTL(c, key)
	s.Require().NoError(err)
	s.True(ttl > 0 && ttl <= 60)

	n, err := s.im.Del(c, key)
	s.Require().NoError(err)
	s.Equal(1, n)

	_, err = s.im.Get(c, key)
	s.Equal(ErrNotFound, err)
}

func (s *redisSuite) TestGetDelConsumesOnce() {
	c := ctx.Background()
	key := keys.RedisKey(keys.PfxNonce, "getdel")

	s.Require().NoError(s.im.Set(c, key, []byte("nonce"), time.Minute))
	val, err := s.im.GetDel(c, key)
	s.Require().NoError(err)
	s.Equal([]byte("nonce"), val)

	_, err = s.im.GetDel(c, key)
	s.Equal(ErrNotFound, err)
}

func (s *redisSuite) TestTTLForever() {
	c := ctx.Background()
	key := keys.RedisKey("test", "forever")
	s.Require().NoError(s.im.Set(c, key, []byte("1"), Forever))
	_, err := s.im.TTL(c, key)
	s.Equal(ErrNoTTL, err)
	_, _ = s.im.Del(c, key)
}

func TestNoPool(t *testing.T) {
	im := New("empty", metrics.New("redis"), &Pools{})
	_, err := im.Get(ctx.Background(), "k")
	assert.Equal(t, ErrGapTime, err)
}
