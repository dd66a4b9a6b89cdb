package models

import "errors"

// Game errors raised at failed lookups/preconditions inside the services and
// mapped to user-facing messages at the interaction boundary.
var (
	ErrPlayerNotRegistered     = errors.New("player not registered")
	ErrPlayerAlreadyRegistered = errors.New("player already registered")
	ErrPlayerBlacklisted       = errors.New("player is blacklisted")
	ErrNotEnoughMoney          = errors.New("not enough money")
	ErrWrongPlayer             = errors.New("interaction belongs to another player")
	ErrNotDriving              = errors.New("player is not driving")
	ErrNoActiveJob             = errors.New("no active job")
	ErrJobAlreadyActive        = errors.New("a job is already active")

	ErrPlaceNotFound = errors.New("place not found")
	ErrItemNotFound  = errors.New("item not found")
	ErrTruckNotFound = errors.New("truck not found")

	ErrCompanyNotFound    = errors.New("company not found")
	ErrCompanyNameTaken   = errors.New("company name already taken")
	ErrAlreadyInCompany   = errors.New("player already belongs to a company")
	ErrNotInCompany       = errors.New("player does not belong to this company")
	ErrNotFounder         = errors.New("only the company founder may do this")
	ErrCannotFireSelf     = errors.New("founder cannot fire themselves")
	ErrFounderCannotLeave = errors.New("founder cannot leave their own company")
	ErrPositionOccupied   = errors.New("position is already occupied")

	ErrNotAtGasStation = errors.New("not at a gas station")
)
