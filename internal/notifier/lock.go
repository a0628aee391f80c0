package notifier

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/thromer/pc-boxscores/internal/logger"
)

const lockPrefix = "pc:chat:"

// LockClient is the subset of the Redis client used for posting locks
type LockClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LockingNotifier takes a per-message Redis lock before delegating, so that
// only one of several concurrent invocations posts a given message. The lock
// is kept after a successful post and released after a failed one.
type LockingNotifier struct {
	next Notifier
	rdb  LockClient
	ttl  time.Duration
	log  *logger.Logger
}

// NewLockingNotifier wraps next with a Redis lock held for ttl
func NewLockingNotifier(next Notifier, rdb LockClient, ttl time.Duration) *LockingNotifier {
	return &LockingNotifier{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  logger.With(logger.Fields{"component": "chat_lock"}),
	}
}

// LockKey returns the Redis key guarding a message for a season
func LockKey(msg Message) string {
	sum := sha1.Sum([]byte(strconv.Itoa(msg.Year) + "|" + msg.String()))
	return fmt.Sprintf("%s%x", lockPrefix, sum)
}

// Notify delegates to the wrapped notifier if the lock for msg is free.
func (n *LockingNotifier) Notify(ctx context.Context, msg Message) error {
	key := LockKey(msg)
	token := uuid.NewString()

	acquired, err := n.rdb.SetNX(ctx, key, token, n.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquiring lock %s: %w", key, err)
	}
	if !acquired {
		n.log.Info("message locked by another poster", logger.Fields{"game_id": msg.GameID, "key": key})
		logger.IncrCounter(logger.MetricChatDuplicate)
		return nil
	}

	if err := n.next.Notify(ctx, msg); err != nil {
		if relErr := n.release(context.WithoutCancel(ctx), key, token); relErr != nil {
			n.log.Warn("failed to release lock", logger.Fields{"key": key, "error": relErr.Error()})
		}
		return err
	}
	return nil
}

// release deletes key if it still holds token
func (n *LockingNotifier) release(ctx context.Context, key, token string) error {
	held, err := n.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if held != token {
		return nil
	}
	return n.rdb.Del(ctx, key).Err()
}

// DialRedis connects to the Redis server at url and verifies it responds
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}
