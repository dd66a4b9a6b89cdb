package services

import (
	"errors"
	"math/rand"
	"time"

	"truckbot/models"
)

// GamblingService implements the casino commands. Stakes are debited up
// front; wins are credited back through the player service so leaderboards
// stay in sync.
type GamblingService struct {
	players *PlayerService
	rng     *rand.Rand
}

func NewGamblingService(players *PlayerService, rng *rand.Rand) *GamblingService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &GamblingService{players: players, rng: rng}
}

var slotReel = []string{"🍒", "🍋", "🔔", "⭐", "💎"}

type CoinflipResult struct {
	Side   string // what the coin showed
	Won    bool
	Payout int64
}

// Coinflip bets on "heads" or "tails"; a win pays double the stake.
func (s *GamblingService) Coinflip(player *models.Player, side string, amount int64) (*CoinflipResult, error) {
	if side != "heads" && side != "tails" {
		return nil, errors.New("side must be heads or tails")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if err := s.players.Debit(player, amount); err != nil {
		return nil, err
	}

	result := &CoinflipResult{Side: "tails"}
	if s.rng.Intn(2) == 0 {
		result.Side = "heads"
	}
	if result.Side == side {
		result.Won = true
		result.Payout = amount * 2
		if err := s.players.AddMoney(player, result.Payout); err != nil {
			return nil, err
		}
	}
	return result, nil
}

type SlotsResult struct {
	Reels  [3]string
	Payout int64
}

// Slots spins three reels: a triple pays 10x, a pair 2x.
func (s *GamblingService) Slots(player *models.Player, amount int64) (*SlotsResult, error) {
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if err := s.players.Debit(player, amount); err != nil {
		return nil, err
	}

	result := &SlotsResult{}
	for i := range result.Reels {
		result.Reels[i] = slotReel[s.rng.Intn(len(slotReel))]
	}

	switch {
	case result.Reels[0] == result.Reels[1] && result.Reels[1] == result.Reels[2]:
		result.Payout = amount * 10
	case result.Reels[0] == result.Reels[1] || result.Reels[1] == result.Reels[2] || result.Reels[0] == result.Reels[2]:
		result.Payout = amount * 2
	}

	if result.Payout > 0 {
		if err := s.players.AddMoney(player, result.Payout); err != nil {
			return nil, err
		}
	}
	return result, nil
}
