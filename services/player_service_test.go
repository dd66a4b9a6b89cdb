package services

import (
	"errors"
	"reflect"
	"testing"

	"truckbot/models"
)

func TestRegisterCreatesFreshPlayer(t *testing.T) {
	env := newTestEnv(t)

	player := env.registerPlayer(t, "100", "Hauler")
	if player.Money != startingMoney {
		t.Errorf("money = %d, want %d", player.Money, startingMoney)
	}
	if player.Pos() != StartPosition {
		t.Errorf("position = %v, want %v", player.Pos(), StartPosition)
	}
	starter, _ := env.catalog.TruckByID(0)
	if player.Gas != starter.GasCapacity {
		t.Errorf("gas = %d, want a full tank of %d", player.Gas, starter.GasCapacity)
	}

	if _, err := env.players.Register("100", "Hauler"); !errors.Is(err, models.ErrPlayerAlreadyRegistered) {
		t.Errorf("second register: got %v, want ErrPlayerAlreadyRegistered", err)
	}
}

func TestGetUnknownAndBlacklisted(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.players.Get("nope"); !errors.Is(err, models.ErrPlayerNotRegistered) {
		t.Errorf("got %v, want ErrPlayerNotRegistered", err)
	}

	player := env.registerPlayer(t, "100", "Banned")
	env.db.Model(player).Update("xp", models.BlacklistXP)
	if _, err := env.players.Get("100"); !errors.Is(err, models.ErrPlayerBlacklisted) {
		t.Errorf("got %v, want ErrPlayerBlacklisted", err)
	}
}

func TestDebitFailsWithoutGoingNegative(t *testing.T) {
	env := newTestEnv(t)
	player := env.registerPlayer(t, "100", "Hauler")

	err := env.players.Debit(player, player.Money+1)
	if !errors.Is(err, models.ErrNotEnoughMoney) {
		t.Fatalf("got %v, want ErrNotEnoughMoney", err)
	}

	fresh, _ := env.players.Get("100")
	if fresh.Money != startingMoney {
		t.Errorf("money changed on failed debit: %d", fresh.Money)
	}

	if err := env.players.Debit(player, 400); err != nil {
		t.Fatalf("affordable debit failed: %v", err)
	}
	if player.Money != startingMoney-400 {
		t.Errorf("money = %d, want %d", player.Money, startingMoney-400)
	}
}

func TestDebitUpToDrainsToZero(t *testing.T) {
	env := newTestEnv(t)
	player := env.registerPlayer(t, "100", "Hauler")

	paid, err := env.players.DebitUpTo(player, player.Money+5000)
	if err != nil {
		t.Fatalf("DebitUpTo failed: %v", err)
	}
	if paid != startingMoney {
		t.Errorf("paid = %d, want %d", paid, startingMoney)
	}
	if player.Money != 0 {
		t.Errorf("money = %d, want 0", player.Money)
	}

	// broke player pays nothing, still no error
	paid, err = env.players.DebitUpTo(player, 100)
	if err != nil || paid != 0 {
		t.Errorf("broke player: paid=%d err=%v, want 0,nil", paid, err)
	}
}

func TestAddXPLevelsUpWithRemainder(t *testing.T) {
	env := newTestEnv(t)
	player := env.registerPlayer(t, "100", "Hauler")

	// level 0 needs 1000, level 1 needs 2000
	levels, err := env.players.AddXP(player, 3100)
	if err != nil {
		t.Fatalf("AddXP failed: %v", err)
	}
	if levels != 2 {
		t.Errorf("levels gained = %d, want 2", levels)
	}
	if player.Level != 2 {
		t.Errorf("level = %d, want 2", player.Level)
	}
	if player.XP != 100 {
		t.Errorf("xp remainder = %d, want 100", player.XP)
	}
}

func TestUnloadItemRemovesAllMatching(t *testing.T) {
	env := newTestEnv(t)
	player := env.registerPlayer(t, "100", "Hauler")

	for _, item := range []string{"wood", "wood", "stone"} {
		if err := env.players.LoadItem(player, item); err != nil {
			t.Fatalf("failed to load %s: %v", item, err)
		}
	}

	removed, err := env.players.UnloadItem(player, "wood")
	if err != nil {
		t.Fatalf("UnloadItem failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if !reflect.DeepEqual([]string(player.Loaded), []string{"stone"}) {
		t.Errorf("loaded = %v, want [stone]", player.Loaded)
	}

	// persisted too
	fresh, _ := env.players.Get("100")
	if !reflect.DeepEqual([]string(fresh.Loaded), []string{"stone"}) {
		t.Errorf("persisted loaded = %v, want [stone]", fresh.Loaded)
	}

	if _, err := env.players.UnloadItem(player, "wood"); !errors.Is(err, models.ErrItemNotFound) {
		t.Errorf("unloading absent item: got %v, want ErrItemNotFound", err)
	}
}

func TestBuyTruck(t *testing.T) {
	env := newTestEnv(t)
	player := env.registerPlayer(t, "100", "Hauler")
	env.players.AddMoney(player, 100000)
	env.players.AddMileage(player, 50)
	env.players.LoadItem(player, "wood")

	truck, err := env.players.BuyTruck(player, 1)
	if err != nil {
		t.Fatalf("BuyTruck failed: %v", err)
	}
	if player.TruckID != truck.ID {
		t.Errorf("truck id = %d, want %d", player.TruckID, truck.ID)
	}
	if player.TruckMiles != 0 {
		t.Errorf("truck miles = %d, want 0 after swap", player.TruckMiles)
	}
	if player.Miles != 50 {
		t.Errorf("lifetime miles = %d, want 50", player.Miles)
	}
	if len(player.Loaded) != 0 {
		t.Errorf("cargo not cleared: %v", player.Loaded)
	}
	wantMoney := int64(startingMoney) + 100000 - truck.Price
	if player.Money != wantMoney {
		t.Errorf("money = %d, want %d", player.Money, wantMoney)
	}

	if _, err := env.players.BuyTruck(player, 3); !errors.Is(err, models.ErrNotEnoughMoney) {
		t.Errorf("unaffordable truck: got %v, want ErrNotEnoughMoney", err)
	}
	if _, err := env.players.BuyTruck(player, 99); !errors.Is(err, models.ErrTruckNotFound) {
		t.Errorf("unknown truck: got %v, want ErrTruckNotFound", err)
	}
}

func TestTopPlayersFallbackOrdering(t *testing.T) {
	env := newTestEnv(t)
	a := env.registerPlayer(t, "1", "Alice")
	b := env.registerPlayer(t, "2", "Bob")
	c := env.registerPlayer(t, "3", "Carol")

	env.players.AddMoney(a, 500)
	env.players.AddMoney(b, 9000)
	env.players.AddMoney(c, 2000)

	// blacklisted players never chart
	banned := env.registerPlayer(t, "4", "Mallory")
	env.players.AddMoney(banned, 999999)
	env.db.Model(banned).Update("xp", models.BlacklistXP)

	top, err := env.players.TopPlayers("money", 10)
	if err != nil {
		t.Fatalf("TopPlayers failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("got %d players, want 3", len(top))
	}
	if top[0].ID != "2" || top[1].ID != "3" || top[2].ID != "1" {
		t.Errorf("wrong order: %s, %s, %s", top[0].ID, top[1].ID, top[2].ID)
	}

	if _, err := env.players.TopPlayers("bogus", 10); err == nil {
		t.Error("expected error for unknown key")
	}
}
