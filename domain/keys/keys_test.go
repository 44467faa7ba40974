package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "market:items", RedisKey(PfxMarket, "items"))
	assert.Equal(t, "nonce:0xabc", RedisKey(PfxNonce, "0xabc"))
}

func TestGetPrefix(t *testing.T) {
	assert.Equal(t, "", GetPrefix("plain"))
	assert.Equal(t, "nonce", GetPrefix("nonce:0xabc"))
	assert.Equal(t, "market:items", GetPrefix("market:items:forSale"))
}
