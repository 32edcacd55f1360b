package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"ticket-booking/internal/data/entity"

	"github.com/redis/go-redis/v9"
)

const (
	ticketsKey    = "tickets:all"
	generationKey = "tickets:gen"
)

// TicketCache holds the last GET /tickets snapshot.
//
// Readers take Generation before loading from the store and pass it to Set.
// Invalidate bumps the generation, so a snapshot read before a mutation can
// never be written back after that mutation's invalidation.
type TicketCache interface {
	Get(ctx context.Context) ([]*entity.Ticket, bool, error)
	Generation(ctx context.Context) (int64, error)
	// Set stores tickets only while the generation still equals gen.
	Set(ctx context.Context, gen int64, tickets []*entity.Ticket) (bool, error)
	Invalidate(ctx context.Context) error
}

// KEYS[1] generation, KEYS[2] snapshot; ARGV gen, payload, ttl ms.
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[1]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

type redisTicketCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisTicketCache(client redis.Cmdable, ttl time.Duration) TicketCache {
	return &redisTicketCache{client: client, ttl: ttl}
}

func (c *redisTicketCache) Get(ctx context.Context) ([]*entity.Ticket, bool, error) {
	data, err := c.client.Get(ctx, ticketsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached tickets: %w", err)
	}

	var tickets []*entity.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, false, fmt.Errorf("decode cached tickets: %w", err)
	}
	return tickets, true, nil
}

func (c *redisTicketCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get cache generation: %w", err)
	}
	return gen, nil
}

func (c *redisTicketCache) Set(ctx context.Context, gen int64, tickets []*entity.Ticket) (bool, error) {
	data, err := json.Marshal(tickets)
	if err != nil {
		return false, fmt.Errorf("encode tickets: %w", err)
	}

	stored, err := setIfGeneration.Run(ctx, c.client,
		[]string{generationKey, ticketsKey},
		strconv.FormatInt(gen, 10), data, c.ttl.Milliseconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("set cached tickets: %w", err)
	}
	return stored == 1, nil
}

func (c *redisTicketCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, ticketsKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate cached tickets: %w", err)
	}
	return nil
}

type noopTicketCache struct{}

// NewNoop is used when caching is disabled.
func NewNoop() TicketCache { return noopTicketCache{} }

func (noopTicketCache) Get(context.Context) ([]*entity.Ticket, bool, error) { return nil, false, nil }

func (noopTicketCache) Generation(context.Context) (int64, error) { return 0, nil }

func (noopTicketCache) Set(context.Context, int64, []*entity.Ticket) (bool, error) { return false, nil }

func (noopTicketCache) Invalidate(context.Context) error { return nil }
