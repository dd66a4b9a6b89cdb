package services

import (
	"errors"
	"testing"

	"truckbot/models"
)

// The catalog is hand-built, so the referential checks live here instead of
// at startup.
func TestCatalogConsistency(t *testing.T) {
	catalog := NewCatalogService()

	seen := make(map[int32]string)
	for _, place := range catalog.Places() {
		pos := place.Position
		if !pos.InBounds() {
			t.Errorf("place %s sits off the map at (%d,%d)", place.Name, pos.X, pos.Y)
		}
		if other, dup := seen[pos.Encode()]; dup {
			t.Errorf("places %s and %s share the cell (%d,%d)", place.Name, other, pos.X, pos.Y)
		}
		seen[pos.Encode()] = place.Name

		if place.ProducedItem != "" {
			if _, err := catalog.ItemByName(place.ProducedItem); err != nil {
				t.Errorf("place %s produces unknown item %q", place.Name, place.ProducedItem)
			}
		}
		if place.AcceptedItem != "" {
			if _, err := catalog.ItemByName(place.AcceptedItem); err != nil {
				t.Errorf("place %s accepts unknown item %q", place.Name, place.AcceptedItem)
			}
		}
	}

	// the spawn cell must be a real place so towed players land somewhere
	if _, ok := catalog.PlaceAt(StartPosition); !ok {
		t.Errorf("no place on the spawn cell %v", StartPosition)
	}
}

func TestCatalogLookups(t *testing.T) {
	catalog := NewCatalogService()

	if _, err := catalog.PlaceByName("Sawmill"); err != nil {
		t.Errorf("PlaceByName(Sawmill) failed: %v", err)
	}
	if _, err := catalog.PlaceByName("Atlantis"); !errors.Is(err, models.ErrPlaceNotFound) {
		t.Errorf("unknown place: got %v, want ErrPlaceNotFound", err)
	}
	if _, err := catalog.ItemByName("wood"); err != nil {
		t.Errorf("ItemByName(wood) failed: %v", err)
	}
	if _, err := catalog.ItemByName("unobtanium"); !errors.Is(err, models.ErrItemNotFound) {
		t.Errorf("unknown item: got %v, want ErrItemNotFound", err)
	}
	if _, err := catalog.TruckByID(99); !errors.Is(err, models.ErrTruckNotFound) {
		t.Errorf("unknown truck: got %v, want ErrTruckNotFound", err)
	}

	for _, place := range catalog.ProducingPlaces() {
		if place.ProducedItem == "" {
			t.Errorf("ProducingPlaces returned %s, which produces nothing", place.Name)
		}
	}
	if len(catalog.ProducingPlaces()) == 0 {
		t.Error("no producing places, jobs cannot be generated")
	}
}

// Trucks are ordered by id and priced strictly upward, starter truck free.
func TestTruckCatalogOrdering(t *testing.T) {
	catalog := NewCatalogService()
	trucks := catalog.Trucks()
	if len(trucks) == 0 {
		t.Fatal("empty truck catalog")
	}
	if trucks[0].Price != 0 {
		t.Errorf("starter truck costs %d, want 0", trucks[0].Price)
	}
	for i, truck := range trucks {
		if truck.ID != i {
			t.Errorf("truck %q has id %d at index %d", truck.Name, truck.ID, i)
		}
		if i > 0 && truck.Price <= trucks[i-1].Price {
			t.Errorf("truck %q is not priced above its predecessor", truck.Name)
		}
		if truck.GasCapacity <= 0 || truck.GasConsumption <= 0 || truck.LoadingCapacity <= 0 {
			t.Errorf("truck %q has non-positive stats", truck.Name)
		}
	}
}
