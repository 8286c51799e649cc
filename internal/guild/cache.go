package guild

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/sablebot/sable/internal/platform/constants"
	"github.com/sablebot/sable/internal/platform/ctxutil"
	"github.com/sablebot/sable/pkg/permissions"
)

// CachedChecker decorates a [Checker] with a Redis-backed cache.
//
// Busy guilds hit the authorization gate on every mutating command; caching
// the bitset for [constants.GuildPermsTTL] keeps those checks off PostgreSQL.
// A role change on the chat platform may therefore take up to the TTL to be
// observed, which matches the bot's own gateway propagation delay.
type CachedChecker struct {
	inner Checker
	redis *redis.Client
}

// NewCachedChecker wraps inner with the Redis cache.
func NewCachedChecker(inner Checker, client *redis.Client) *CachedChecker {
	return &CachedChecker{inner: inner, redis: client}
}

// MemberPermissions returns the cached bitset when fresh, falling back to the
// inner checker on a miss. Cache failures degrade to the inner checker; they
// never fail the permission check itself.
func (checker *CachedChecker) MemberPermissions(ctx context.Context, guildID, userID int64) (permissions.Set, error) {
	key := cacheKey(guildID, userID)

	cached, err := checker.redis.Get(ctx, key).Result()
	if err == nil {
		if perms, parseErr := strconv.ParseUint(cached, 10, 64); parseErr == nil {
			return permissions.Set(perms), nil
		}
	} else if err != redis.Nil {
		ctxutil.GetLogger(ctx).Warn("guild_perms_cache_read_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	perms, err := checker.inner.MemberPermissions(ctx, guildID, userID)
	if err != nil {
		return 0, err
	}

	if setErr := checker.redis.Set(ctx, key, strconv.FormatUint(uint64(perms), 10), constants.GuildPermsTTL).Err(); setErr != nil {
		ctxutil.GetLogger(ctx).Warn("guild_perms_cache_write_failed",
			slog.String("key", key),
			slog.Any("error", setErr),
		)
	}

	return perms, nil
}

func cacheKey(guildID, userID int64) string {
	return fmt.Sprintf("%s%d:%d", constants.RedisPrefixGuildPerms, guildID, userID)
}
