package usecase

import "time"

const (
	// RateCacheKey is the cache key for the global rate.
	RateCacheKey = "rate:global"

	// RateCacheTTL is how long the global rate is cached. Rate changes
	// delete the key eagerly; the TTL only bounds staleness across
	// instances.
	RateCacheTTL = 30 * time.Second

	// PacketDedupeTTL is how long inbound packet ids are remembered for
	// exactly-once minting.
	PacketDedupeTTL = 30 * 24 * time.Hour

	packetDedupePrefix = "bridge:packet:"
)
