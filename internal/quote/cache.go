package quote

import (
	"context"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/hashicorp/golang-lru/v2"

	"github.com/Fodl-DAO/fodl-smart-contracts/internal/dex/oneinch"
)

const defaultCacheSize = 256

// CachedQuoter memoises quotes of an underlying deterministic Quoter.
// Failed quotes are not cached.
type CachedQuoter struct {
	next Quoter

	// Key: keccak256(amountIn word || payload)
	recent *lru.Cache[common.Hash, *big.Int]

	// Metrics
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewCachedQuoter(next Quoter, size int) (*CachedQuoter, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	recent, err := lru.New[common.Hash, *big.Int](size)
	if err != nil {
		return nil, err
	}
	return &CachedQuoter{next: next, recent: recent}, nil
}

func cacheKey(amountIn *big.Int, payload []byte) common.Hash {
	// out-of-range amounts share the zero word; the backend rejects them anyway
	w, _ := oneinch.PadAmount(amountIn)
	return crypto.Keccak256Hash(w[:], payload)
}

func (c *CachedQuoter) Quote(ctx context.Context, amountIn *big.Int, payload []byte) (*big.Int, error) {
	key := cacheKey(amountIn, payload)
	if v, ok := c.recent.Get(key); ok {
		c.hits.Add(1)
		return new(big.Int).Set(v), nil
	}
	c.misses.Add(1)

	v, err := c.next.Quote(ctx, amountIn, payload)
	if err != nil {
		return nil, err
	}
	c.recent.Add(key, new(big.Int).Set(v))
	return v, nil
}

// Stats returns cache hit and miss counts.
func (c *CachedQuoter) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
