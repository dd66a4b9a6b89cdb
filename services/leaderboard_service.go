package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// LeaderboardService keeps per-stat sorted sets in Redis so /top and the
// dashboard don't hit Postgres on every call. Redis is best-effort derived
// state: the client may be nil (tests, local runs without Redis), in which
// case writes are skipped and readers fall back to SQL.
type LeaderboardService struct {
	redis *redis.Client
}

func NewLeaderboardService(redisClient *redis.Client) *LeaderboardService {
	return &LeaderboardService{redis: redisClient}
}

type LeaderboardEntry struct {
	PlayerID string `json:"player_id"`
	Score    int64  `json:"score"`
	Rank     int64  `json:"rank"`
}

func leaderboardKey(key string) string {
	return fmt.Sprintf("leaderboard:%s", key)
}

// SetScore upserts a player's score. Failures are logged and swallowed; the
// SQL tables remain the source of truth.
func (s *LeaderboardService) SetScore(key, playerID string, score int64) {
	if s.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := s.redis.ZAdd(ctx, leaderboardKey(key), redis.Z{
		Score:  float64(score),
		Member: playerID,
	}).Err()
	if err != nil {
		log.Printf("Failed to update %s leaderboard for %s: %v", key, playerID, err)
	}
}

// Remove drops a player from every leaderboard (blacklist, account wipe).
func (s *LeaderboardService) Remove(playerID string) {
	if s.redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, key := range []string{"money", "miles", "level"} {
		if err := s.redis.ZRem(ctx, leaderboardKey(key), playerID).Err(); err != nil {
			log.Printf("Failed to remove %s from %s leaderboard: %v", playerID, key, err)
		}
	}
}

// Top returns the best n entries, ranked from 1. ok is false when Redis is
// unavailable and the caller should use the SQL fallback instead.
func (s *LeaderboardService) Top(key string, n int64) ([]LeaderboardEntry, bool) {
	if s.redis == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	results, err := s.redis.ZRevRangeWithScores(ctx, leaderboardKey(key), 0, n-1).Result()
	if err != nil {
		log.Printf("Failed to read %s leaderboard: %v", key, err)
		return nil, false
	}
	return rankEntries(results), true
}

// rankEntries turns a sorted-set page into ranked entries, 1-based.
func rankEntries(results []redis.Z) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		entries = append(entries, LeaderboardEntry{
			PlayerID: z.Member,
			Score:    int64(z.Score),
			Rank:     int64(i + 1),
		})
	}
	return entries
}

// Rank returns a player's 1-based rank on a leaderboard, or 0 if unranked.
func (s *LeaderboardService) Rank(key, playerID string) int64 {
	if s.redis == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	rank, err := s.redis.ZRevRank(ctx, leaderboardKey(key), playerID).Result()
	if err != nil {
		return 0
	}
	return rank + 1
}
