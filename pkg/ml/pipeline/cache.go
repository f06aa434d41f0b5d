package pipeline

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	lru "github.com/hashicorp/golang-lru"
	"gonum.org/v1/gonum/mat"
)

// transformCache memoizes the output of the fitted transform chain for
// repeated inference on identical input. The fitted chain is deterministic,
// so entries stay valid until any step is refitted; every fit entry point
// purges the cache. A nil cache is inert.
type transformCache struct {
	c *lru.Cache
}

type cacheKey struct {
	fingerprint uint64
	withFinal   bool
}

func newTransformCache(size int) *transformCache {
	c, err := lru.New(size)
	if err != nil {
		// lru.New only rejects non-positive sizes
		return nil
	}
	return &transformCache{c: c}
}

func (tc *transformCache) get(X mat.Matrix, withFinal bool) (mat.Matrix, bool) {
	if tc == nil {
		return nil, false
	}
	v, ok := tc.c.Get(cacheKey{fingerprint(X), withFinal})
	if !ok {
		return nil, false
	}
	return v.(mat.Matrix), true
}

func (tc *transformCache) put(X mat.Matrix, withFinal bool, Xt mat.Matrix) {
	if tc == nil {
		return
	}
	tc.c.Add(cacheKey{fingerprint(X), withFinal}, Xt)
}

func (tc *transformCache) purge() {
	if tc == nil {
		return
	}
	tc.c.Purge()
}

// fingerprint hashes the shape and raw values of X.
func fingerprint(X mat.Matrix) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	r, c := X.Dims()
	binary.LittleEndian.PutUint64(buf[:], uint64(r))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(c))
	h.Write(buf[:])
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(X.At(i, j)))
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}
