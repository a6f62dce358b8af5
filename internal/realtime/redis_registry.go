package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const (
	connKeyPrefix = "realtime:conn:"
	onlineSet     = "realtime:online"
)

// unregisterScript deletes the mapping only if it still holds the given
// connection id.
var unregisterScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("DEL", KEYS[1])
	redis.call("SREM", KEYS[2], ARGV[2])
	return 1
end
return 0
`)

// refreshScript renews the mapping's TTL only if it still holds the given
// connection id.
var refreshScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("PEXPIRE", KEYS[1], ARGV[3])
	redis.call("SADD", KEYS[2], ARGV[2])
	return 1
end
return 0
`)

// RedisRegistry shares the user to connection mapping between nodes.
type RedisRegistry struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRedisRegistry(client *goredis.Client, ttl time.Duration) *RedisRegistry {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &RedisRegistry{client: client, ttl: ttl}
}

func (r *RedisRegistry) Register(ctx context.Context, userID uuid.UUID, connID string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, connKeyPrefix+userID.String(), connID, r.ttl)
	pipe.SAdd(ctx, onlineSet, userID.String())
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisRegistry) Unregister(ctx context.Context, userID uuid.UUID, connID string) error {
	keys := []string{connKeyPrefix + userID.String(), onlineSet}
	return unregisterScript.Run(ctx, r.client, keys, connID, userID.String()).Err()
}

func (r *RedisRegistry) Refresh(ctx context.Context, userID uuid.UUID, connID string) error {
	keys := []string{connKeyPrefix + userID.String(), onlineSet}
	return refreshScript.Run(ctx, r.client, keys, connID, userID.String(), r.ttl.Milliseconds()).Err()
}

// TTL reports how long a mapping lives without a refresh.
func (r *RedisRegistry) TTL() time.Duration { return r.ttl }

func (r *RedisRegistry) Lookup(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	connID, err := r.client.Get(ctx, connKeyPrefix+userID.String()).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return connID, true, nil
}

// OnlineUsers drops set members whose mapping has expired.
func (r *RedisRegistry) OnlineUsers(ctx context.Context) ([]uuid.UUID, error) {
	members, err := r.client.SMembers(ctx, onlineSet).Result()
	if err != nil {
		return nil, err
	}
	users := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		n, err := r.client.Exists(ctx, connKeyPrefix+member).Result()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			r.client.SRem(ctx, onlineSet, member)
			continue
		}
		users = append(users, id)
	}
	sortIDs(users)
	return users, nil
}

func (r *RedisRegistry) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
