package services

import (
	"errors"
	"log"

	"truckbot/models"

	"gorm.io/gorm"
)

const startingMoney = 1000

type PlayerService struct {
	db          *gorm.DB
	catalog     *CatalogService
	leaderboard *LeaderboardService
}

func NewPlayerService(db *gorm.DB, catalog *CatalogService, leaderboard *LeaderboardService) *PlayerService {
	return &PlayerService{
		db:          db,
		catalog:     catalog,
		leaderboard: leaderboard,
	}
}

// Register creates a fresh player with the starter truck, parked at the
// truck stop with a full tank.
func (s *PlayerService) Register(id, name string) (*models.Player, error) {
	var existing models.Player
	if err := s.db.Where("id = ?", id).First(&existing).Error; err == nil {
		return nil, models.ErrPlayerAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	starter, err := s.catalog.TruckByID(0)
	if err != nil {
		return nil, err
	}

	player := models.Player{
		ID:       id,
		Name:     name,
		Money:    startingMoney,
		Position: StartPosition.Encode(),
		Gas:      starter.GasCapacity,
		TruckID:  starter.ID,
		Loaded:   models.ItemList{},
	}

	if err := s.db.Create(&player).Error; err != nil {
		return nil, err
	}

	log.Printf("Registered new player %s (%s)", name, id)
	s.syncLeaderboards(&player)
	return &player, nil
}

// Get loads a player and enforces the blacklist sentinel.
func (s *PlayerService) Get(id string) (*models.Player, error) {
	var player models.Player
	if err := s.db.Where("id = ?", id).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrPlayerNotRegistered
		}
		return nil, err
	}
	if player.Blacklisted() {
		return nil, models.ErrPlayerBlacklisted
	}
	return &player, nil
}

func (s *PlayerService) AddMoney(player *models.Player, amount int64) error {
	player.Money += amount
	if err := s.db.Model(player).Update("money", player.Money).Error; err != nil {
		return err
	}
	s.syncLeaderboards(player)
	return nil
}

// Debit fails with ErrNotEnoughMoney rather than letting money go negative.
func (s *PlayerService) Debit(player *models.Player, amount int64) error {
	if amount > player.Money {
		return models.ErrNotEnoughMoney
	}
	return s.AddMoney(player, -amount)
}

// DebitUpTo takes at most amount, draining the balance to zero if short.
// Used for the tow fee on fuel exhaustion, which must never fail.
func (s *PlayerService) DebitUpTo(player *models.Player, amount int64) (int64, error) {
	if amount > player.Money {
		amount = player.Money
	}
	if amount <= 0 {
		return 0, nil
	}
	return amount, s.AddMoney(player, -amount)
}

// AddXP grants xp and applies level-ups, carrying the remainder over.
// Returns the number of levels gained.
func (s *PlayerService) AddXP(player *models.Player, amount int64) (int, error) {
	player.XP += amount
	levels := 0
	for player.XP >= player.NextLevelXP() {
		player.XP -= player.NextLevelXP()
		player.Level++
		levels++
	}
	err := s.db.Model(player).Updates(map[string]interface{}{
		"xp":    player.XP,
		"level": player.Level,
	}).Error
	if err != nil {
		return 0, err
	}
	if levels > 0 {
		log.Printf("Player %s leveled up to %d", player.ID, player.Level)
	}
	s.syncLeaderboards(player)
	return levels, nil
}

func (s *PlayerService) UpdatePosition(player *models.Player, pos models.Position) error {
	player.SetPos(pos)
	return s.db.Model(player).Update("position", player.Position).Error
}

// AddMileage bumps both the lifetime and the per-truck mileage counters.
func (s *PlayerService) AddMileage(player *models.Player, miles int64) error {
	player.Miles += miles
	player.TruckMiles += miles
	err := s.db.Model(player).Updates(map[string]interface{}{
		"miles":       player.Miles,
		"truck_miles": player.TruckMiles,
	}).Error
	if err != nil {
		return err
	}
	s.syncLeaderboards(player)
	return nil
}

func (s *PlayerService) SetGas(player *models.Player, gas int64) error {
	player.Gas = gas
	return s.db.Model(player).Update("gas", player.Gas).Error
}

// LoadItem appends one unit. Capacity is checked by the caller (the drive
// view disables the load button at capacity), not enforced here.
func (s *PlayerService) LoadItem(player *models.Player, item string) error {
	if _, err := s.catalog.ItemByName(item); err != nil {
		return err
	}
	player.Loaded = append(player.Loaded, item)
	return s.db.Model(player).Update("loaded", player.Loaded).Error
}

// UnloadItem removes every loaded unit matching the name, not just one.
// Returns the number of units removed.
func (s *PlayerService) UnloadItem(player *models.Player, item string) (int, error) {
	if _, err := s.catalog.ItemByName(item); err != nil {
		return 0, err
	}
	kept := make(models.ItemList, 0, len(player.Loaded))
	removed := 0
	for _, loaded := range player.Loaded {
		if loaded == item {
			removed++
			continue
		}
		kept = append(kept, loaded)
	}
	if removed == 0 {
		return 0, models.ErrItemNotFound
	}
	player.Loaded = kept
	return removed, s.db.Model(player).Update("loaded", player.Loaded).Error
}

// Truck returns the player's active truck from the catalog.
func (s *PlayerService) Truck(player *models.Player) (models.Truck, error) {
	return s.catalog.TruckByID(player.TruckID)
}

// BuyTruck debits the price and swaps the truck. The per-truck mileage
// resets, the cargo bed is emptied, and gas carries over clamped to the new
// tank's capacity.
func (s *PlayerService) BuyTruck(player *models.Player, truckID int) (models.Truck, error) {
	truck, err := s.catalog.TruckByID(truckID)
	if err != nil {
		return models.Truck{}, err
	}
	if err := s.Debit(player, truck.Price); err != nil {
		return models.Truck{}, err
	}

	player.TruckID = truck.ID
	player.TruckMiles = 0
	player.Loaded = models.ItemList{}
	if player.Gas > truck.GasCapacity {
		player.Gas = truck.GasCapacity
	}
	err = s.db.Model(player).Updates(map[string]interface{}{
		"truck_id":    player.TruckID,
		"truck_miles": player.TruckMiles,
		"loaded":      player.Loaded,
		"gas":         player.Gas,
	}).Error
	if err != nil {
		return models.Truck{}, err
	}

	log.Printf("Player %s bought truck %d (%s)", player.ID, truck.ID, truck.Name)
	return truck, nil
}

// TopPlayers is the SQL leaderboard query, also the fallback when Redis is
// not available. key is one of "money", "miles", "level".
func (s *PlayerService) TopPlayers(key string, limit int) ([]models.Player, error) {
	order := ""
	switch key {
	case "money":
		order = "money DESC"
	case "miles":
		order = "miles DESC"
	case "level":
		order = "level DESC, xp DESC"
	default:
		return nil, errors.New("unknown leaderboard key")
	}

	var players []models.Player
	err := s.db.Where("xp <> ?", models.BlacklistXP).Order(order).Limit(limit).Find(&players).Error
	return players, err
}

func (s *PlayerService) syncLeaderboards(player *models.Player) {
	if s.leaderboard == nil || player.Blacklisted() {
		return
	}
	s.leaderboard.SetScore("money", player.ID, player.Money)
	s.leaderboard.SetScore("miles", player.ID, player.Miles)
	s.leaderboard.SetScore("level", player.ID, int64(player.Level))
}

// Count reports the number of registered players, blacklisted included.
func (s *PlayerService) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Player{}).Count(&n).Error
	return n, err
}
