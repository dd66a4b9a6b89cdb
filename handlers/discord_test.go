package handlers

import (
	"errors"
	"strings"
	"testing"

	"truckbot/models"
)

func TestErrorMessageCoversEverySentinel(t *testing.T) {
	sentinels := []error{
		models.ErrPlayerNotRegistered,
		models.ErrPlayerAlreadyRegistered,
		models.ErrPlayerBlacklisted,
		models.ErrNotEnoughMoney,
		models.ErrWrongPlayer,
		models.ErrNotDriving,
		models.ErrNoActiveJob,
		models.ErrJobAlreadyActive,
		models.ErrPlaceNotFound,
		models.ErrItemNotFound,
		models.ErrTruckNotFound,
		models.ErrCompanyNotFound,
		models.ErrCompanyNameTaken,
		models.ErrAlreadyInCompany,
		models.ErrNotInCompany,
		models.ErrNotFounder,
		models.ErrCannotFireSelf,
		models.ErrFounderCannotLeave,
		models.ErrPositionOccupied,
		models.ErrNotAtGasStation,
	}

	generic := errorMessage(errors.New("boom"))
	seen := make(map[string]error, len(sentinels))
	for _, err := range sentinels {
		msg := errorMessage(err)
		if msg == generic {
			t.Errorf("%v falls through to the generic message", err)
		}
		if prev, dup := seen[msg]; dup {
			t.Errorf("%v and %v share the message %q", err, prev, msg)
		}
		seen[msg] = err
	}
}

func TestErrorMessageUnwrapsWrappedErrors(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), models.ErrNotEnoughMoney)
	if errorMessage(wrapped) != errorMessage(models.ErrNotEnoughMoney) {
		t.Error("wrapped sentinel not recognized")
	}
}

func TestDriveCustomIDRoundTrip(t *testing.T) {
	id := driveCustomID("left", "12345")
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 {
		t.Fatalf("custom id %q has %d parts, want 3", id, len(parts))
	}
	if parts[0] != "drive" || parts[1] != "left" || parts[2] != "12345" {
		t.Errorf("custom id parsed to %v", parts)
	}
}
