package assign

import "hash/fnv"

// bucketResolution gives buckets a granularity of 0.01 so that fractional
// rollout percentages are honored.
const bucketResolution = 10000

// Hasher maps identifier strings onto deterministic buckets in [0, 100).
// The mapping uses FNV-1a and is stable across processes, platforms, and
// releases; persisted assignments stay valid as long as the identifiers do.
// The zero value is ready to use.
type Hasher struct{}

// Bucket returns key's bucket, a value in [0, 100) with 0.01 resolution.
func (Hasher) Bucket(key string) float64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return float64(h.Sum64()%bucketResolution) / 100.0
}
