package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/rental_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_fx/internal/core/ports/repositories"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultRedisKey is the hash holding the shared snapshot.
const DefaultRedisKey = "fx:rates:" + string(domain.BaseCurrency)

// saveIfNewer writes the snapshot only when no newer one is stored.
// KEYS[1] hash key, ARGV[1] encoded snapshot, ARGV[2] cached_at unix nanos.
var saveIfNewer = goRedis.NewScript(`
local current = redis.call("HGET", KEYS[1], "cached_at")
if current and tonumber(current) > tonumber(ARGV[2]) then
	return 0
end
redis.call("HSET", KEYS[1], "data", ARGV[1], "cached_at", ARGV[2])
return 1
`)

// RedisStore shares the snapshot between service instances through Redis.
// The key has no expiry so the stale tier keeps working during long outages.
type RedisStore struct {
	client goRedis.Cmdable
	key    string
}

// NewRedisStore creates a store on client. An empty key uses DefaultRedisKey.
func NewRedisStore(client goRedis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

var _ portsrepo.RateSnapshotStore = (*RedisStore)(nil)

func (s *RedisStore) Load(ctx context.Context) (*domain.RatesSnapshot, error) {
	raw, err := s.client.HGet(ctx, s.key, "data").Bytes()
	if errors.Is(err, goRedis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get redis snapshot failed: %w", err)
	}
	snap, err := decodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snapshot domain.RatesSnapshot) error {
	raw, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := saveIfNewer.Run(ctx, s.client, []string{s.key}, raw, snapshot.CachedAt.UnixNano()).Err(); err != nil {
		return fmt.Errorf("set redis snapshot failed: %w", err)
	}
	return nil
}

// wireSnapshot is the msgpack layout. Rates travel as strings to keep full precision.
type wireSnapshot struct {
	Base      string            `msgpack:"base"`
	Rates     map[string]string `msgpack:"rates"`
	UpdatedAt int64             `msgpack:"updated_at"`
	CachedAt  int64             `msgpack:"cached_at"`
}

func encodeSnapshot(snap domain.RatesSnapshot) ([]byte, error) {
	w := wireSnapshot{
		Base:      snap.Base.String(),
		Rates:     make(map[string]string, len(snap.Rates)),
		UpdatedAt: unixNanoOrZero(snap.UpdatedAt),
		CachedAt:  unixNanoOrZero(snap.CachedAt),
	}
	for code, rate := range snap.Rates {
		w.Rates[code.String()] = rate.String()
	}
	raw, err := msgpack.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rate snapshot: %w", err)
	}
	return raw, nil
}

func decodeSnapshot(raw []byte) (domain.RatesSnapshot, error) {
	var w wireSnapshot
	if err := msgpack.Unmarshal(raw, &w); err != nil {
		return domain.RatesSnapshot{}, fmt.Errorf("failed to decode rate snapshot: %w", err)
	}
	snap := domain.RatesSnapshot{
		Base:      domain.CurrencyCode(w.Base),
		Rates:     make(map[domain.CurrencyCode]decimal.Decimal, len(w.Rates)),
		UpdatedAt: timeOrZero(w.UpdatedAt),
		CachedAt:  timeOrZero(w.CachedAt),
	}
	for code, s := range w.Rates {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			return domain.RatesSnapshot{}, fmt.Errorf("failed to decode rate for %s: %w", code, err)
		}
		snap.Rates[domain.CurrencyCode(code)] = rate
	}
	return snap, nil
}

func unixNanoOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func timeOrZero(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
