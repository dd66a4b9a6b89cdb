package services

import (
	"errors"
	"log"
	"time"

	"truckbot/models"

	"gorm.io/gorm"
)

const (
	// TowFee is charged (best-effort) when a player runs the tank dry.
	TowFee = 3000
	// GasPrice is the cost per unit of gas at a gas station.
	GasPrice = 2
)

// DrivingService owns the driving session lifecycle. A session is a row in
// the sessions table; at most one exists per player, and every mutation goes
// through an explicit update here. Concurrent button presses are not
// serialized: last write wins, with CheckOwner as the stale-session guard.
type DrivingService struct {
	db      *gorm.DB
	catalog *CatalogService
	players *PlayerService
}

func NewDrivingService(db *gorm.DB, catalog *CatalogService, players *PlayerService) *DrivingService {
	return &DrivingService{db: db, catalog: catalog, players: players}
}

// ResponseTarget identifies the original interaction message so stale
// controls can be stripped out-of-band after a timeout or forced stop.
type ResponseTarget struct {
	AppID     string
	Token     string
	ChannelID string
	MessageID string
}

func (s *DrivingService) GetSession(playerID string) (*models.DrivingSession, error) {
	var session models.DrivingSession
	if err := s.db.Where("player_id = ?", playerID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotDriving
		}
		return nil, err
	}
	return &session, nil
}

// StartDrive opens a fresh driving session. If the player already has one it
// is terminated first and its response target returned so the caller can
// strip the old message's controls. Starting over is always allowed, a
// rejected second drive would just leak orphaned sessions.
func (s *DrivingService) StartDrive(player *models.Player, target ResponseTarget) (*models.DrivingSession, *ResponseTarget, error) {
	var stale *ResponseTarget
	if old, err := s.GetSession(player.ID); err == nil {
		stale = &ResponseTarget{AppID: old.AppID, Token: old.Token, ChannelID: old.ChannelID, MessageID: old.MessageID}
		if err := s.db.Delete(&models.DrivingSession{}, old.ID).Error; err != nil {
			return nil, nil, err
		}
		log.Printf("Player %s restarted driving, old session %d terminated", player.ID, old.ID)
	} else if !errors.Is(err, models.ErrNotDriving) {
		return nil, nil, err
	}

	session := models.DrivingSession{
		PlayerID:   player.ID,
		AppID:      target.AppID,
		Token:      target.Token,
		ChannelID:  target.ChannelID,
		MessageID:  target.MessageID,
		LastAction: time.Now(),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, nil, err
	}
	return &session, stale, nil
}

// AttachMessage records the drive message id once Discord has assigned it.
func (s *DrivingService) AttachMessage(session *models.DrivingSession, messageID string) error {
	session.MessageID = messageID
	return s.db.Model(session).Update("message_id", messageID).Error
}

// CheckOwner verifies an incoming component interaction against the live
// session: the actor must own the session and the button must belong to the
// current drive message. Anything else is a stale or foreign click.
func (s *DrivingService) CheckOwner(session *models.DrivingSession, playerID, messageID string) error {
	if session.PlayerID != playerID {
		return models.ErrWrongPlayer
	}
	if session.MessageID != "" && messageID != "" && session.MessageID != messageID {
		return models.ErrWrongPlayer
	}
	return nil
}

// Touch bumps the idle clock after any in-drive interaction.
func (s *DrivingService) Touch(session *models.DrivingSession) error {
	session.LastAction = time.Now()
	return s.db.Model(session).Update("last_action", session.LastAction).Error
}

// Stop ends a drive normally. The player row is already current (every move
// persists), so this only removes the session.
func (s *DrivingService) Stop(playerID string) error {
	session, err := s.GetSession(playerID)
	if err != nil {
		return err
	}
	return s.db.Delete(&models.DrivingSession{}, session.ID).Error
}

// MoveResult reports what a single move did, including the fuel-exhaustion
// recovery if it fired.
type MoveResult struct {
	Position      models.Position
	FuelExhausted bool
	TowFeePaid    int64
}

// Move applies one directional step: position changes by one cell, both
// mileage counters increment, and gas drops by the truck's consumption.
//
// Fuel exhaustion is terminal for the session but never fatal for the
// player: the session is deleted, a tow fee is debited as far as the balance
// allows, and the player wakes up at the truck stop with a full tank.
func (s *DrivingService) Move(player *models.Player, session *models.DrivingSession, dir models.Direction) (*MoveResult, error) {
	pos := player.Pos()
	legal := false
	for _, d := range pos.LegalDirections() {
		if d == dir {
			legal = true
			break
		}
	}
	if !legal {
		// border buttons are disabled client-side; a click that still lands
		// here is stale
		return &MoveResult{Position: pos}, nil
	}

	truck, err := s.players.Truck(player)
	if err != nil {
		return nil, err
	}

	next := pos.Apply(dir)
	if err := s.players.UpdatePosition(player, next); err != nil {
		return nil, err
	}
	if err := s.players.AddMileage(player, 1); err != nil {
		return nil, err
	}
	if err := s.players.SetGas(player, player.Gas-truck.GasConsumption); err != nil {
		return nil, err
	}

	if player.Gas <= 0 {
		result := &MoveResult{Position: StartPosition, FuelExhausted: true}

		if err := s.db.Delete(&models.DrivingSession{}, session.ID).Error; err != nil {
			log.Printf("Failed to delete session %d after fuel exhaustion: %v", session.ID, err)
		}
		paid, err := s.players.DebitUpTo(player, TowFee)
		if err != nil {
			log.Printf("Tow fee debit failed for %s: %v", player.ID, err)
		}
		result.TowFeePaid = paid

		if err := s.players.UpdatePosition(player, StartPosition); err != nil {
			return nil, err
		}
		if err := s.players.SetGas(player, truck.GasCapacity); err != nil {
			return nil, err
		}

		log.Printf("Player %s ran out of gas, towed to the truck stop ($%d fee)", player.ID, paid)
		return result, nil
	}

	if err := s.Touch(session); err != nil {
		return nil, err
	}
	return &MoveResult{Position: next}, nil
}

// Refuel fills the tank at a gas station, one unit per GasPrice, buying a
// partial fill when money runs short.
func (s *DrivingService) Refuel(player *models.Player) (int64, int64, error) {
	place, ok := s.catalog.PlaceAt(player.Pos())
	if !ok || place.AcceptedItem != "gas" {
		return 0, 0, models.ErrNotAtGasStation
	}

	truck, err := s.players.Truck(player)
	if err != nil {
		return 0, 0, err
	}

	units := truck.GasCapacity - player.Gas
	if units <= 0 {
		return 0, 0, nil
	}
	if affordable := player.Money / GasPrice; units > affordable {
		units = affordable
	}
	if units <= 0 {
		return 0, 0, models.ErrNotEnoughMoney
	}

	cost := units * GasPrice
	if err := s.players.Debit(player, cost); err != nil {
		return 0, 0, err
	}
	if err := s.players.SetGas(player, player.Gas+units); err != nil {
		return 0, 0, err
	}
	return units, cost, nil
}

// SweepIdle terminates every session idle past the threshold and returns the
// response targets so the boundary can strip the stale controls.
func (s *DrivingService) SweepIdle(threshold time.Duration) ([]ResponseTarget, error) {
	cutoff := time.Now().Add(-threshold)

	var sessions []models.DrivingSession
	if err := s.db.Where("last_action < ?", cutoff).Find(&sessions).Error; err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	targets := make([]ResponseTarget, 0, len(sessions))
	for _, session := range sessions {
		if err := s.db.Delete(&models.DrivingSession{}, session.ID).Error; err != nil {
			log.Printf("Failed to delete idle session %d: %v", session.ID, err)
			continue
		}
		log.Printf("Swept idle driving session for player %s", session.PlayerID)
		targets = append(targets, ResponseTarget{
			AppID:     session.AppID,
			Token:     session.Token,
			ChannelID: session.ChannelID,
			MessageID: session.MessageID,
		})
	}
	return targets, nil
}

// ActiveSessions counts live driving sessions, for /info and the dashboard.
func (s *DrivingService) ActiveSessions() (int64, error) {
	var n int64
	err := s.db.Model(&models.DrivingSession{}).Count(&n).Error
	return n, err
}
