// Package redisstore keeps numbering markers in Redis so that several API
// instances can share one allocator namespace without a database round trip.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"docissuer/internal/model"
	"docissuer/internal/repository"
)

const defaultKeyPrefix = "docissuer:seq:"

// casScript swaps KEYS[1] from ARGV[1] to ARGV[2]. A missing key compares
// against the seed in ARGV[3]; an empty seed makes the script return -1 so
// the caller can scan issued identifiers and try again.
var casScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if not cur then
	if ARGV[3] == '' then
		return -1
	end
	cur = ARGV[3]
end
if tonumber(cur) ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2])
return 1
`)

// SequenceRedis implements repository.SequenceRepository on a Redis string
// per namespace.
type SequenceRedis struct {
	client    redis.Cmdable
	keyPrefix string
	scanner   repository.IssuedScanner
}

// NewSequenceRedis creates a store on an existing client. scanner may be nil.
func NewSequenceRedis(client redis.Cmdable, keyPrefix string, scanner repository.IssuedScanner) *SequenceRedis {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &SequenceRedis{client: client, keyPrefix: keyPrefix, scanner: scanner}
}

var _ repository.SequenceRepository = (*SequenceRedis)(nil)

func (s *SequenceRedis) key(k model.SequenceKey) string {
	return fmt.Sprintf("%s%s:%d", s.keyPrefix, k.Prefix, k.Year)
}

// Highest reads the marker, seeding from issued identifiers when absent.
func (s *SequenceRedis) Highest(ctx context.Context, key model.SequenceKey) (int, error) {
	v, err := s.client.Get(ctx, s.key(key)).Int()
	if errors.Is(err, redis.Nil) {
		return s.seed(ctx, key)
	}
	if err != nil {
		return 0, fmt.Errorf("read sequence %s: %w", key, err)
	}
	return v, nil
}

// CompareAndSwap runs casScript atomically on the server.
func (s *SequenceRedis) CompareAndSwap(ctx context.Context, key model.SequenceKey, old, new int) (bool, error) {
	keys := []string{s.key(key)}
	res, err := casScript.Run(ctx, s.client, keys, old, new, "").Int()
	if err != nil {
		return false, fmt.Errorf("swap sequence %s: %w", key, err)
	}
	if res == -1 {
		seed, err := s.seed(ctx, key)
		if err != nil {
			return false, err
		}
		res, err = casScript.Run(ctx, s.client, keys, old, new, strconv.Itoa(seed)).Int()
		if err != nil {
			return false, fmt.Errorf("swap sequence %s: %w", key, err)
		}
	}
	return res == 1, nil
}

func (s *SequenceRedis) seed(ctx context.Context, key model.SequenceKey) (int, error) {
	if s.scanner == nil {
		return 0, nil
	}
	return s.scanner.HighestIssued(ctx, key)
}
