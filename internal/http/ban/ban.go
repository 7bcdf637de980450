// Package ban counts rate-limit strikes per client in Redis and bans clients
// that collect too many. Without a Redis service every check is a no-op.
package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/medicine-tracker/internal/redissvc"
)

const (
	DailyBanLogKey = "ratelimit:banlog:daily"
	strikeKeyFmt   = "ratelimit:strikes:%s"
	banKeyFmt      = "ratelimit:ban:%s"
	strikeWindow   = time.Hour
)

var (
	mu          sync.RWMutex
	rdb         *redis.Client
	ctx         context.Context
	maxStrikes  = 5
	banDuration = 15 * time.Minute
)

func SetRedisService(rs *redissvc.RedisService) {
	mu.Lock()
	defer mu.Unlock()
	rdb = rs.Rdb()
	ctx = rs.Ctx()
}

// Configure sets how many strikes trigger a ban and for how long.
func Configure(strikes int, duration time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if strikes > 0 {
		maxStrikes = strikes
	}
	if duration > 0 {
		banDuration = duration
	}
}

func client() (*redis.Client, context.Context) {
	mu.RLock()
	defer mu.RUnlock()
	return rdb, ctx
}

// IsBanned reports whether target is banned and for how much longer.
func IsBanned(target string) (bool, time.Duration) {
	c, cctx := client()
	if c == nil {
		return false, 0
	}

	ttl, err := c.TTL(cctx, fmt.Sprintf(banKeyFmt, target)).Result()
	if err != nil {
		log.Printf("⚠️ ban lookup failed for %s: %v", target, err)
		return false, 0
	}
	return ttl > 0, ttl
}

// RegisterStrike records a rate-limit violation and bans target once it
// reaches the configured number of strikes within an hour.
func RegisterStrike(target, route string) (int, bool) {
	c, cctx := client()
	if c == nil {
		return 0, false
	}

	mu.RLock()
	limit, duration := maxStrikes, banDuration
	mu.RUnlock()

	key := fmt.Sprintf(strikeKeyFmt, target)
	strikes, err := c.Incr(cctx, key).Result()
	if err != nil {
		log.Printf("⚠️ could not record strike for %s: %v", target, err)
		return 0, false
	}
	if strikes == 1 {
		_ = c.Expire(cctx, key, strikeWindow).Err()
	}
	if int(strikes) < limit {
		return int(strikes), false
	}

	if err := c.Set(cctx, fmt.Sprintf(banKeyFmt, target), route, duration).Err(); err != nil {
		log.Printf("❌ could not ban %s: %v", target, err)
		return int(strikes), false
	}
	_ = c.Del(cctx, key).Err()
	log.Printf("🚫 %s banned for %s after %d strikes on %s", target, duration, strikes, route)
	logBanEvent(c, cctx, target, route, int(strikes))
	return int(strikes), true
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

func logBanEvent(c *redis.Client, cctx context.Context, target, route string, strikes int) {
	entry := BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    time.Now(),
	}
	data, _ := json.Marshal(entry)
	_ = c.RPush(cctx, DailyBanLogKey, data).Err()
}

func StartDailyBanSummary(interval time.Duration) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 0, 0, now.Location())
		if now.After(next) {
			next = next.Add(interval)
		}
		time.Sleep(time.Until(next))
		SendDailyBanSummary()
	}
}

// SendDailyBanSummary drains the daily ban log and writes a summary to the log.
func SendDailyBanSummary() {
	c, cctx := client()
	if c == nil {
		return
	}

	entries, err := c.LRange(cctx, DailyBanLogKey, 0, -1).Result()
	if err != nil || len(entries) == 0 {
		return
	}
	_ = c.Del(cctx, DailyBanLogKey).Err()

	routeCounts := make(map[string]int)
	targetCounts := make(map[string]int)
	total := 0
	for _, item := range entries {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			total++
			routeCounts[entry.Route]++
			targetCounts[entry.Target]++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Daily ban summary: %d bans", total))
	for route, count := range routeCounts {
		sb.WriteString(fmt.Sprintf(" | %s=%d", route, count))
	}
	for target, count := range targetCounts {
		sb.WriteString(fmt.Sprintf(" | %s:%d", target, count))
	}
	log.Println(sb.String())
}
