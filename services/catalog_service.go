package services

import (
	"strings"

	"truckbot/models"
)

// CatalogService is the read-only registry of places, items and trucks.
// It is constructed once at startup and passed to every service that needs
// reference data; nothing mutates it afterwards.
type CatalogService struct {
	places       []models.Place
	items        []models.Item
	trucks       []models.Truck
	placesByName map[string]models.Place
	placesByPos  map[int32]models.Place
	itemsByName  map[string]models.Item
	trucksByID   map[int]models.Truck
}

// StartPosition is where new players spawn and where fuel-exhausted players
// are towed to (the truck stop).
var StartPosition = models.Position{X: 12, Y: 12}

func NewCatalogService() *CatalogService {
	s := &CatalogService{
		places: []models.Place{
			{Name: "Truck Stop", Position: models.Position{X: 12, Y: 12}, Emoji: "🅿️"},
			{Name: "Sawmill", Position: models.Position{X: 3, Y: 20}, ProducedItem: "wood", Emoji: "🪚"},
			{Name: "Furniture Factory", Position: models.Position{X: 18, Y: 17}, AcceptedItem: "wood", Emoji: "🪑"},
			{Name: "Quarry", Position: models.Position{X: 21, Y: 3}, ProducedItem: "stone", Emoji: "⛏️"},
			{Name: "Construction Site", Position: models.Position{X: 8, Y: 5}, AcceptedItem: "stone", Emoji: "🏗️"},
			{Name: "Farm", Position: models.Position{X: 5, Y: 14}, ProducedItem: "produce", Emoji: "🚜"},
			{Name: "Market", Position: models.Position{X: 16, Y: 8}, AcceptedItem: "produce", Emoji: "🛒"},
			{Name: "Steel Mill", Position: models.Position{X: 22, Y: 19}, ProducedItem: "steel", Emoji: "🏭"},
			{Name: "Car Factory", Position: models.Position{X: 2, Y: 2}, AcceptedItem: "steel", Emoji: "🚗"},
			{Name: "Gas Station North", Position: models.Position{X: 10, Y: 18}, AcceptedItem: "gas", Emoji: "⛽"},
			{Name: "Gas Station South", Position: models.Position{X: 15, Y: 4}, AcceptedItem: "gas", Emoji: "⛽"},
		},
		items: []models.Item{
			{Name: "wood", Emoji: "🪵", Description: "Freshly cut logs from the sawmill."},
			{Name: "stone", Emoji: "🪨", Description: "Rough stone blocks from the quarry."},
			{Name: "produce", Emoji: "🥕", Description: "Crates of vegetables from the farm."},
			{Name: "steel", Emoji: "🔩", Description: "Steel beams from the mill."},
			{Name: "gas", Emoji: "⛽", Description: "Canisters of fuel."},
		},
		trucks: []models.Truck{
			{ID: 0, Name: "Rusty Van", Price: 0, GasConsumption: 1, GasCapacity: 300, LoadingCapacity: 1, Emoji: "🚐",
				Description: "Everyone starts somewhere. It runs, mostly."},
			{ID: 1, Name: "City Flatbed", Price: 25000, GasConsumption: 1, GasCapacity: 450, LoadingCapacity: 2, Emoji: "🛻",
				Description: "A reliable flatbed for short hauls."},
			{ID: 2, Name: "Long Hauler", Price: 90000, GasConsumption: 2, GasCapacity: 650, LoadingCapacity: 3, Emoji: "🚚",
				Description: "Eats more gas, carries a lot more freight."},
			{ID: 3, Name: "Road Train", Price: 280000, GasConsumption: 3, GasCapacity: 900, LoadingCapacity: 4, Emoji: "🚛",
				Description: "The king of the interstate."},
		},
	}

	s.placesByName = make(map[string]models.Place, len(s.places))
	s.placesByPos = make(map[int32]models.Place, len(s.places))
	for _, p := range s.places {
		s.placesByName[strings.ToLower(p.Name)] = p
		s.placesByPos[p.Position.Encode()] = p
	}
	s.itemsByName = make(map[string]models.Item, len(s.items))
	for _, i := range s.items {
		s.itemsByName[strings.ToLower(i.Name)] = i
	}
	s.trucksByID = make(map[int]models.Truck, len(s.trucks))
	for _, t := range s.trucks {
		s.trucksByID[t.ID] = t
	}

	return s
}

func (s *CatalogService) Places() []models.Place { return s.places }
func (s *CatalogService) Items() []models.Item   { return s.items }
func (s *CatalogService) Trucks() []models.Truck { return s.trucks }

func (s *CatalogService) PlaceByName(name string) (models.Place, error) {
	place, ok := s.placesByName[strings.ToLower(name)]
	if !ok {
		return models.Place{}, models.ErrPlaceNotFound
	}
	return place, nil
}

// PlaceAt returns the place occupying a map cell, if any.
func (s *CatalogService) PlaceAt(pos models.Position) (models.Place, bool) {
	place, ok := s.placesByPos[pos.Encode()]
	return place, ok
}

func (s *CatalogService) ItemByName(name string) (models.Item, error) {
	item, ok := s.itemsByName[strings.ToLower(name)]
	if !ok {
		return models.Item{}, models.ErrItemNotFound
	}
	return item, nil
}

func (s *CatalogService) TruckByID(id int) (models.Truck, error) {
	truck, ok := s.trucksByID[id]
	if !ok {
		return models.Truck{}, models.ErrTruckNotFound
	}
	return truck, nil
}

// ProducingPlaces returns the places that produce an item, i.e. valid job origins.
func (s *CatalogService) ProducingPlaces() []models.Place {
	var out []models.Place
	for _, p := range s.places {
		if p.ProducedItem != "" {
			out = append(out, p)
		}
	}
	return out
}
