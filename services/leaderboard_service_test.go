package services

import (
	"reflect"
	"testing"

	"github.com/redis/go-redis/v9"
)

// Without Redis the leaderboard degrades to a no-op and callers fall back to
// SQL ordering; none of these may panic.
func TestLeaderboardWithoutRedis(t *testing.T) {
	lb := NewLeaderboardService(nil)

	lb.SetScore("money", "100", 500)
	lb.Remove("100")

	if entries, ok := lb.Top("money", 10); ok || entries != nil {
		t.Errorf("Top = %v/%v, want nil and false without redis", entries, ok)
	}
	if rank := lb.Rank("money", "100"); rank != 0 {
		t.Errorf("Rank = %d, want 0 without redis", rank)
	}
}

func TestRankEntries(t *testing.T) {
	got := rankEntries([]redis.Z{
		{Score: 9000, Member: "2"},
		{Score: 2000, Member: "3"},
		{Score: 500, Member: "1"},
	})
	want := []LeaderboardEntry{
		{PlayerID: "2", Score: 9000, Rank: 1},
		{PlayerID: "3", Score: 2000, Rank: 2},
		{PlayerID: "1", Score: 500, Rank: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rankEntries = %v, want %v", got, want)
	}

	if entries := rankEntries(nil); len(entries) != 0 {
		t.Errorf("empty page produced %v", entries)
	}
}
